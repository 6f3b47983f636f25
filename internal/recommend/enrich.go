package recommend

import "github.com/hyperjump/metaboost/internal/models"

func newRecommendation(rec models.DatasetRecord, score float64, tags, categories []string) models.Recommendation {
	return models.Recommendation{
		DatasetID:        rec.ID,
		Title:            rec.Title,
		SimilarityScore:  score,
		CommonTags:       tags,
		CommonCategories: categories,
	}
}

// commonTags returns the tags present in both lists, in query order, without duplicates.
func commonTags(query, candidate []string) []string {
	have := make(map[string]struct{}, len(candidate))
	for _, t := range candidate {
		have[t] = struct{}{}
	}
	out := []string{}
	seen := make(map[string]struct{}, len(query))
	for _, t := range query {
		if _, ok := have[t]; !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// commonCategories is [a] when both categories are equal and non-empty.
func commonCategories(a, b string) []string {
	if a != "" && a == b {
		return []string{a}
	}
	return []string{}
}
