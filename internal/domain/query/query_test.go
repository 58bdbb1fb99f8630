package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/hireloop/talentsearch/internal/domain"
	"github.com/hireloop/talentsearch/internal/domain/candidate"
	"github.com/hireloop/talentsearch/internal/domain/skill"
)

func floatPtr(v float64) *float64 { return &v }

func TestNew_Defaults(t *testing.T) {
	q, err := New(Params{Text: "backend engineer"}, skill.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Limit() != DefaultLimit {
		t.Errorf("Limit = %d, want %d", q.Limit(), DefaultLimit)
	}
	if q.Offset() != 0 {
		t.Errorf("Offset = %d, want 0", q.Offset())
	}
	if q.Weights() != candidate.DefaultWeights() {
		t.Errorf("Weights = %+v, want defaults", q.Weights())
	}
	if q.ExperienceLevel() != "" {
		t.Errorf("ExperienceLevel = %q, want empty", q.ExperienceLevel())
	}
}

func TestNew_SkillDefaults(t *testing.T) {
	q, err := New(Params{
		Text:           "backend engineer",
		RequiredSkills: []SkillParam{{Skill: "ReactJS"}},
	}, skill.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reqs := q.RequiredSkills()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 requirement, got %d", len(reqs))
	}
	if reqs[0].Raw() != "ReactJS" {
		t.Errorf("Raw = %q, want ReactJS", reqs[0].Raw())
	}
	if reqs[0].Canonical() != "react" {
		t.Errorf("Canonical = %q, want react", reqs[0].Canonical())
	}
	if reqs[0].MinConfidence() != DefaultMinConfidence {
		t.Errorf("MinConfidence = %v, want %v", reqs[0].MinConfidence(), float64(DefaultMinConfidence))
	}
	if reqs[0].Weight() != DefaultSkillWeight {
		t.Errorf("Weight = %v, want %v", reqs[0].Weight(), DefaultSkillWeight)
	}
}

func TestNew_CollectsFieldErrors(t *testing.T) {
	_, err := New(Params{
		Text:            "",
		ExperienceLevel: "principal",
		RequiredSkills: []SkillParam{
			{Skill: "go", MinConfidence: floatPtr(150)},
			{Skill: ""},
		},
		Limit:  500,
		Offset: -1,
	}, skill.Default())
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	wantPaths := []string{
		"text_query",
		"experience_level",
		"required_skills[0].minimum_confidence",
		"required_skills[1].skill",
		"limit",
		"offset",
	}
	for _, path := range wantPaths {
		found := false
		for _, f := range verr.Fields {
			if f.Path == path {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing field error for %q in %v", path, verr.Fields)
		}
	}
}

func TestNew_RejectsOversizedQuery(t *testing.T) {
	_, err := New(Params{Text: strings.Repeat("a", MaxQueryLength+1)}, skill.Default())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNew_RejectsNegativeWeights(t *testing.T) {
	_, err := New(Params{
		Text:    "backend engineer",
		Weights: &candidate.Weights{SkillMatch: -1},
	}, skill.Default())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNew_WeightOverride(t *testing.T) {
	w := candidate.Weights{SkillMatch: 1, Confidence: 0, VectorSimilarity: 0, ExperienceMatch: 0}
	q, err := New(Params{Text: "backend engineer", Weights: &w}, skill.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Weights() != w {
		t.Errorf("Weights = %+v, want %+v", q.Weights(), w)
	}
}
