package quality

import (
	"sort"

	"github.com/hyperjump/metaboost/internal/models"
)

// Bucket boundaries for the score distribution.
const (
	ExcellentThreshold = 0.8
	GoodThreshold      = 0.6
	FairThreshold      = 0.4
)

// Bucket names the distribution bucket for an overall score.
func Bucket(score float64) string {
	switch {
	case score >= ExcellentThreshold:
		return "excellent"
	case score >= GoodThreshold:
		return "good"
	case score >= FairThreshold:
		return "fair"
	default:
		return "poor"
	}
}

// Summarize aggregates scores. An empty input yields a zeroed summary.
func Summarize(scores []models.QualityScore) models.QualitySummary {
	summary := models.QualitySummary{
		TotalDatasets: len(scores),
		CommonIssues:  []models.IssueCount{},
	}
	if len(scores) == 0 {
		return summary
	}

	var total float64
	counts := newIssueCounter()
	for _, s := range scores {
		total += s.OverallScore
		switch Bucket(s.OverallScore) {
		case "excellent":
			summary.ScoreDistribution.Excellent++
		case "good":
			summary.ScoreDistribution.Good++
		case "fair":
			summary.ScoreDistribution.Fair++
		default:
			summary.ScoreDistribution.Poor++
		}
		for _, issue := range s.Issues {
			counts.add(issue)
		}
	}
	summary.AverageScore = total / float64(len(scores))
	summary.CommonIssues = counts.sorted()
	return summary
}

// issueCounter counts issues while remembering the order each label was first seen.
type issueCounter struct {
	index  map[string]int
	counts []models.IssueCount
}

func newIssueCounter() *issueCounter {
	return &issueCounter{index: make(map[string]int)}
}

func (c *issueCounter) add(issue string) {
	if i, ok := c.index[issue]; ok {
		c.counts[i].Count++
		return
	}
	c.index[issue] = len(c.counts)
	c.counts = append(c.counts, models.IssueCount{Issue: issue, Count: 1})
}

func (c *issueCounter) sorted() []models.IssueCount {
	out := make([]models.IssueCount, len(c.counts))
	copy(out, c.counts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
