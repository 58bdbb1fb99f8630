package chi

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hireloop/talentsearch/internal/domain"
	"github.com/hireloop/talentsearch/internal/domain/candidate"
	"github.com/hireloop/talentsearch/internal/domain/query"
	searchuc "github.com/hireloop/talentsearch/internal/usecase/search"
)

// validate is the shared request validator. Field paths in error responses
// use the JSON names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type skillParamDTO struct {
	Skill         string   `json:"skill" validate:"required"`
	MinConfidence *float64 `json:"minimum_confidence" validate:"omitempty,gte=0,lte=100"`
	Weight        *float64 `json:"weight" validate:"omitempty,gte=0,lte=1"`
	Category      string   `json:"category"`
}

type weightsDTO struct {
	SkillMatch       float64 `json:"skill_match" validate:"gte=0"`
	Confidence       float64 `json:"confidence" validate:"gte=0"`
	VectorSimilarity float64 `json:"vector_similarity" validate:"gte=0"`
	ExperienceMatch  float64 `json:"experience_match" validate:"gte=0"`
}

type searchRequest struct {
	TextQuery            string            `json:"text_query" validate:"required,max=4096"`
	RequiredSkills       []skillParamDTO   `json:"required_skills" validate:"dive"`
	PreferredSkills      []skillParamDTO   `json:"preferred_skills" validate:"dive"`
	ExperienceLevel      string            `json:"experience_level" validate:"omitempty,oneof=entry mid senior executive"`
	MinOverallConfidence float64           `json:"minimum_overall_confidence" validate:"gte=0,lte=100"`
	Filters              map[string]string `json:"filters"`
	Limit                int               `json:"limit" validate:"gte=0,lte=300"`
	Offset               int               `json:"offset" validate:"gte=0"`
	RankingWeights       *weightsDTO       `json:"ranking_weights"`
	JobFunction          string            `json:"job_function"`
	JobLevel             string            `json:"job_level"`
	JobTitle             string            `json:"job_title"`
}

func (r *searchRequest) toParams() query.Params {
	p := query.Params{
		Text:                 r.TextQuery,
		RequiredSkills:       skillParamsFromDTO(r.RequiredSkills),
		PreferredSkills:      skillParamsFromDTO(r.PreferredSkills),
		ExperienceLevel:      r.ExperienceLevel,
		MinOverallConfidence: r.MinOverallConfidence,
		Filters:              r.Filters,
		Limit:                r.Limit,
		Offset:               r.Offset,
		JobFunction:          r.JobFunction,
		JobLevel:             r.JobLevel,
		JobTitle:             r.JobTitle,
	}
	if r.RankingWeights != nil {
		p.Weights = &candidate.Weights{
			SkillMatch:       r.RankingWeights.SkillMatch,
			Confidence:       r.RankingWeights.Confidence,
			VectorSimilarity: r.RankingWeights.VectorSimilarity,
			ExperienceMatch:  r.RankingWeights.ExperienceMatch,
		}
	}
	return p
}

func skillParamsFromDTO(in []skillParamDTO) []query.SkillParam {
	if len(in) == 0 {
		return nil
	}
	out := make([]query.SkillParam, len(in))
	for i, s := range in {
		out[i] = query.SkillParam{
			Skill:         s.Skill,
			MinConfidence: s.MinConfidence,
			Weight:        s.Weight,
			Category:      s.Category,
		}
	}
	return out
}

// fieldErrorsFromValidator converts validator errors into response field
// errors, keeping the JSON paths relative to the request body.
func fieldErrorsFromValidator(err error) []domain.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:] // strip the struct name prefix
		}
		fields = append(fields, domain.FieldError{
			Path:    path,
			Message: validationMessage(fe),
		})
	}
	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "exceeds " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

type queryAnalysisDTO struct {
	TextQuery       string            `json:"text_query"`
	RequiredSkills  []string          `json:"required_skills,omitempty"`
	PreferredSkills []string          `json:"preferred_skills,omitempty"`
	ExperienceLevel string            `json:"experience_level,omitempty"`
	Weights         candidate.Weights `json:"ranking_weights"`
	TaxonomyVersion string            `json:"taxonomy_version"`
}

type searchMetadataDTO struct {
	TotalEvaluated        int   `json:"total_candidates_evaluated"`
	SearchTimeMs          int64 `json:"search_time_ms"`
	SkillFilteringApplied bool  `json:"skill_filtering_applied"`
	RerankApplied         bool  `json:"rerank_applied"`
	RerankFailed          bool  `json:"rerank_failed,omitempty"`
}

type searchResponse struct {
	Candidates    []candidate.Score `json:"candidates"`
	QueryAnalysis queryAnalysisDTO  `json:"query_analysis"`
	Metadata      searchMetadataDTO `json:"search_metadata"`
}

func searchResultToDTO(res *searchuc.Result) searchResponse {
	candidates := res.Candidates
	if candidates == nil {
		candidates = []candidate.Score{}
	}
	return searchResponse{
		Candidates: candidates,
		QueryAnalysis: queryAnalysisDTO{
			TextQuery:       res.QueryAnalysis.Text,
			RequiredSkills:  res.QueryAnalysis.RequiredSkills,
			PreferredSkills: res.QueryAnalysis.PreferredSkills,
			ExperienceLevel: res.QueryAnalysis.ExperienceLevel,
			Weights:         res.QueryAnalysis.Weights,
			TaxonomyVersion: res.QueryAnalysis.TaxonomyVersion,
		},
		Metadata: searchMetadataDTO{
			TotalEvaluated:        res.Metadata.TotalEvaluated,
			SearchTimeMs:          res.Metadata.SearchTimeMs,
			SkillFilteringApplied: res.Metadata.SkillFilteringApplied,
			RerankApplied:         res.Metadata.RerankApplied,
			RerankFailed:          res.Metadata.RerankFailed,
		},
	}
}

type errorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
