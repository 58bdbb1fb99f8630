package ranking

import (
	"testing"

	"github.com/hireloop/talentsearch/internal/domain/level"
)

func TestScoreExperience(t *testing.T) {
	tests := []struct {
		name   string
		years  float64
		title  string
		target level.Level
		want   float64
	}{
		{
			name:   "no target level is neutral",
			years:  10,
			title:  "senior engineer",
			target: "",
			want:   neutralExperienceScore,
		},
		{
			name:   "executive in range with exact title",
			years:  15,
			title:  "cto",
			target: level.Executive,
			want:   100,
		},
		{
			// years: 12-5=7 under, 100-7*15 = -5 -> floor 30.
			// title empty: 40. 30*0.3 + 40*0.7 = 37.
			name:   "executive underqualified with empty title",
			years:  5,
			title:  "",
			target: level.Executive,
			want:   37,
		},
		{
			// years in range 100; broader executive keyword: 80.
			// 100*0.3 + 80*0.7 = 86.
			name:   "executive with broader keyword",
			years:  14,
			title:  "director of engineering",
			target: level.Executive,
			want:   86,
		},
		{
			// years in range 100; no executive signal at all: 20.
			// 100*0.3 + 20*0.7 = 44.
			name:   "executive with ic title",
			years:  13,
			title:  "software engineer",
			target: level.Executive,
			want:   44,
		},
		{
			name:   "mid level in range no title keywords",
			years:  4,
			title:  "product manager",
			target: level.Mid,
			// years 100, title 50: 100*0.5 + 50*0.5 = 75.
			want: 75,
		},
		{
			// 20 years against senior max 15: 100-5*5 = 75.
			// title 50: 75*0.5 + 50*0.5 = 62.5 -> round 63.
			name:   "senior overqualified",
			years:  20,
			title:  "software developer",
			target: level.Senior,
			want:   63,
		},
		{
			// entry min 0 so always in range on years.
			name:   "entry with empty title",
			years:  1,
			title:  "",
			target: level.Entry,
			// years 100, title 40: 100*0.5 + 40*0.5 = 70.
			want: 70,
		},
		{
			// 25 years over executive max 50? no - in range [12,50]: 100.
			name:   "long executive career in range",
			years:  25,
			title:  "vice president of engineering",
			target: level.Executive,
			want:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreExperience(tt.years, tt.title, tt.target)
			if got.Score != tt.want {
				t.Errorf("Score = %v, want %v", got.Score, tt.want)
			}
			if got.Summary == "" {
				t.Error("expected non-empty summary")
			}
		})
	}
}

func TestScoreExperience_TitleWordBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		years  float64
		title  string
		target level.Level
		want   float64
	}{
		{
			// "director" contains "cto" as a substring; only the broader
			// credit applies. 100*0.3 + 80*0.7 = 86.
			name:   "director is not a c-suite hit",
			years:  14,
			title:  "director of engineering",
			target: level.Executive,
			want:   86,
		},
		{
			// "svp" contains "vp" but is not the keyword as a word.
			// No broader keyword either: 100*0.3 + 20*0.7 = 44.
			name:   "svp is not vp",
			years:  14,
			title:  "svp of operations",
			target: level.Executive,
			want:   44,
		},
		{
			// Punctuation separates words: "vp" matches exactly.
			name:   "vp with comma",
			years:  14,
			title:  "vp, engineering",
			target: level.Executive,
			want:   100,
		},
		{
			name:   "cto slash founder",
			years:  14,
			title:  "cto/founder",
			target: level.Executive,
			want:   100,
		},
		{
			// "carpentry" contains "entry"; no entry keyword as a word.
			// years 1 in range: 100*0.5 + 50*0.5 = 75.
			name:   "carpentry is not entry",
			years:  1,
			title:  "carpentry apprentice",
			target: level.Entry,
			want:   75,
		},
		{
			name:   "entry as a word matches",
			years:  1,
			title:  "entry level analyst",
			target: level.Entry,
			want:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreExperience(tt.years, tt.title, tt.target)
			if got.Score != tt.want {
				t.Errorf("Score = %v, want %v", got.Score, tt.want)
			}
		})
	}
}

func TestScoreExperience_UnderFloor(t *testing.T) {
	// Massive under-experience cannot drop below the floor.
	got := ScoreExperience(0, "junior developer", level.Executive)
	// years floor 30, title 20: 30*0.3 + 20*0.7 = 23.
	if got.Score != 23 {
		t.Errorf("Score = %v, want 23", got.Score)
	}
}
