package models

import "time"

// ComponentScores are the per-factor scores that make up an overall quality score.
type ComponentScores struct {
	Metadata    float64 `json:"metadata"`
	Format      float64 `json:"format"`
	License     float64 `json:"license"`
	Frequency   float64 `json:"frequency"`
	Description float64 `json:"description"`
	Category    float64 `json:"category"`
	Tags        float64 `json:"tags"`
}

// QualityScore is the scored result for one dataset.
// Issues keep the order in which the checks ran.
type QualityScore struct {
	DatasetID    string          `json:"dataset_id"`
	OverallScore float64         `json:"overall_score"`
	Components   ComponentScores `json:"components"`
	Issues       []string        `json:"issues"`
}

// ScoreDistribution counts datasets per quality bucket.
type ScoreDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

// IssueCount is the number of datasets reporting a given issue.
type IssueCount struct {
	Issue string `json:"issue"`
	Count int    `json:"count"`
}

// QualitySummary aggregates a set of quality scores.
// CommonIssues is ordered by count descending; equal counts keep first-seen order.
type QualitySummary struct {
	TotalDatasets     int               `json:"total_datasets"`
	AverageScore      float64           `json:"average_score"`
	ScoreDistribution ScoreDistribution `json:"score_distribution"`
	CommonIssues      []IssueCount      `json:"common_issues"`
}

// Report is the outcome of analyzing one catalog snapshot.
type Report struct {
	ID          string               `json:"id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Scores      []QualityScore       `json:"scores"`
	Summary     QualitySummary       `json:"summary"`
	Problems    []ProblematicDataset `json:"problems"`
}
