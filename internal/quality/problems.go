package quality

import (
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/metaboost/internal/models"
)

// Problem labels reported by FindProblems.
const (
	ProblemMissingDescription = "missing description"
	ProblemShortDescription   = "description too short"
	ProblemMissingCategory    = "missing category"
	ProblemFewTags            = "few tags"
	ProblemNonReusableFormat  = "non-reusable format"
)

const (
	minDescriptionRunes = 50
	minTags             = 3
)

var reusableFormats = map[string]bool{"CSV": true, "JSON": true, "XML": true}

// FindProblems returns the datasets with at least one metadata problem, in input order.
// The list is what a metadata-rewriting step would work on.
func FindProblems(records []models.DatasetRecord) []models.ProblematicDataset {
	out := make([]models.ProblematicDataset, 0)
	for _, rec := range records {
		if problems := recordProblems(rec); len(problems) > 0 {
			out = append(out, models.ProblematicDataset{
				ID:       rec.ID,
				Title:    rec.Title,
				Problems: problems,
			})
		}
	}
	return out
}

func recordProblems(rec models.DatasetRecord) []string {
	var problems []string
	switch {
	case strings.TrimSpace(rec.Description) == "":
		problems = append(problems, ProblemMissingDescription)
	case utf8.RuneCountInString(rec.Description) < minDescriptionRunes:
		problems = append(problems, ProblemShortDescription)
	}
	if rec.Category == "" {
		problems = append(problems, ProblemMissingCategory)
	}
	if len(rec.Tags) < minTags {
		problems = append(problems, ProblemFewTags)
	}
	if !reusableFormats[strings.ToUpper(strings.TrimSpace(rec.Format))] {
		problems = append(problems, ProblemNonReusableFormat)
	}
	return problems
}
