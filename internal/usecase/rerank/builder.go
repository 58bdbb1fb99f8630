// Package rerank builds the stage-2 rerank request (level-aware guidance
// query plus compact candidate summaries) and merges the external
// reranker's ordering back into the stage-1 ranking.
package rerank

import (
	"fmt"
	"strings"

	"github.com/hireloop/talentsearch/internal/domain/candidate"
)

// Fixed truncation counts for the rerank payload.
const (
	MaxRecords             = 100
	maxSkills              = 10
	maxCompanies           = 5
	maxSummaryChars        = 300
	maxJobDescriptionChars = 1500
)

// Record is one candidate summary sent to the external reranker.
type Record struct {
	ID      string
	Title   string
	Content string
}

// Ranked is one entry of the reranker's ordered best-first output.
type Ranked struct {
	ID    string
	Score float64
}

// Source carries the per-candidate fields the summary is built from.
// Skills must be in profile insertion order for reproducible output.
type Source struct {
	ID        string
	Title     string
	Years     float64
	Skills    []string
	Companies []string
	Summary   string
}

// BuildRecords converts stage-1-ordered sources into reranker records,
// capped at MaxRecords. The caller supplies sources already ordered by
// stage-1 overall score.
func BuildRecords(sources []Source) []Record {
	if len(sources) > MaxRecords {
		sources = sources[:MaxRecords]
	}
	records := make([]Record, len(sources))
	for i, src := range sources {
		records[i] = Record{
			ID:      src.ID,
			Title:   src.Title,
			Content: Content(src),
		}
	}
	return records
}

// Content builds the compact candidate summary: experience, first 10
// skills, first 5 companies, first 300 summary characters. Fixed
// truncation, no added ellipsis.
func Content(src Source) string {
	parts := []string{fmt.Sprintf("Experience: %.0f years.", src.Years)}

	if len(src.Skills) > 0 {
		skills := src.Skills
		if len(skills) > maxSkills {
			skills = skills[:maxSkills]
		}
		parts = append(parts, fmt.Sprintf("Key Skills: %s.", strings.Join(skills, ", ")))
	}

	if len(src.Companies) > 0 {
		companies := src.Companies
		if len(companies) > maxCompanies {
			companies = companies[:maxCompanies]
		}
		parts = append(parts, fmt.Sprintf("Companies: %s.", strings.Join(companies, ", ")))
	}

	if src.Summary != "" {
		summary := []rune(src.Summary)
		if len(summary) > maxSummaryChars {
			summary = summary[:maxSummaryChars]
		}
		parts = append(parts, fmt.Sprintf("Summary: %s.", string(summary)))
	}

	return strings.Join(parts, " ")
}

// BuildQuery assembles the rerank query: optional hiring-logic block, the
// literal "---" separator, and the truncated job description ("..." is
// appended only when truncation happened).
func BuildQuery(jobDescription, function, jobLevel, title string) string {
	var b strings.Builder

	if block := HiringLogic(function, jobLevel, title); block != "" {
		b.WriteString(block)
		b.WriteString("\n")
	}
	b.WriteString("---\n")
	b.WriteString("JOB DESCRIPTION:\n")

	desc := []rune(jobDescription)
	if len(desc) > maxJobDescriptionChars {
		b.WriteString(string(desc[:maxJobDescriptionChars]))
		b.WriteString("...")
	} else {
		b.WriteString(jobDescription)
	}
	return b.String()
}

// TopN clamps the requested topN to the record count.
func TopN(requested, records int) int {
	if requested <= 0 || requested > records {
		return records
	}
	return requested
}

// Merge folds the reranker's ordering back into the stage-1 ranking:
// reranked candidates come first in reranker order (annotated with their
// rerank score and 1-based position), followed by the remaining candidates
// in stage-1 order. Unknown IDs in the reranker output are ignored.
func Merge(stage1 []candidate.Score, ranked []Ranked) []candidate.Score {
	byID := make(map[string]int, len(stage1))
	for i := range stage1 {
		byID[stage1[i].CandidateID] = i
	}

	merged := make([]candidate.Score, 0, len(stage1))
	taken := make(map[string]struct{}, len(ranked))

	for _, r := range ranked {
		idx, ok := byID[r.ID]
		if !ok {
			continue
		}
		if _, dup := taken[r.ID]; dup {
			continue
		}
		taken[r.ID] = struct{}{}

		s := stage1[idx]
		score := r.Score
		pos := len(merged) + 1
		s.RerankScore = &score
		s.RerankPosition = &pos
		merged = append(merged, s)
	}

	for i := range stage1 {
		if _, ok := taken[stage1[i].CandidateID]; ok {
			continue
		}
		merged = append(merged, stage1[i])
	}
	return merged
}
