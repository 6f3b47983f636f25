package quality

import (
	"math"

	"github.com/hyperjump/metaboost/internal/models"
)

// Issue labels, listed in evaluation order.
const (
	IssueTitleTooShort           = "title too short"
	IssueInsufficientDescription = "insufficient description"
	IssueMissingCategory         = "missing category"
	IssueFewTags                 = "few tags"
	IssueSuboptimalFormat        = "suboptimal format"
	IssueRestrictiveLicense      = "restrictive license"
	IssueLowUpdateFrequency      = "low update frequency"
	IssueStaleDataset            = "stale dataset"
)

// Weights are the fixed contributions of each component to the overall score.
type Weights struct {
	Metadata    float64
	Format      float64
	License     float64
	Frequency   float64
	Description float64
	Category    float64
	Tags        float64
}

// DefaultWeights returns the reference weights. They sum to 1.0.
func DefaultWeights() Weights {
	return Weights{
		Metadata:    0.30,
		Format:      0.20,
		License:     0.15,
		Frequency:   0.15,
		Description: 0.10,
		Category:    0.05,
		Tags:        0.05,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Metadata + w.Format + w.License + w.Frequency + w.Description + w.Category + w.Tags
}

const defaultStaleAfterDays = 365

// Scorer turns feature vectors into quality scores.
type Scorer struct {
	weights        Weights
	staleAfterDays int
}

// NewScorer returns a Scorer with the default weights. staleAfterDays <= 0 means 365.
func NewScorer(staleAfterDays int) *Scorer {
	if staleAfterDays <= 0 {
		staleAfterDays = defaultStaleAfterDays
	}
	return &Scorer{weights: DefaultWeights(), staleAfterDays: staleAfterDays}
}

// Score computes the quality score for a single feature vector.
func (s *Scorer) Score(f models.FeatureVector) models.QualityScore {
	c := models.ComponentScores{
		Metadata:    MetadataScore(f),
		Format:      f.FormatScore,
		License:     f.LicenseScore,
		Frequency:   f.FrequencyScore,
		Description: DescriptionScore(f),
		Category:    CategoryScore(f),
		Tags:        TagsScore(f.NumTags),
	}
	overall := c.Metadata*s.weights.Metadata +
		c.Format*s.weights.Format +
		c.License*s.weights.License +
		c.Frequency*s.weights.Frequency +
		c.Description*s.weights.Description +
		c.Category*s.weights.Category +
		c.Tags*s.weights.Tags

	return models.QualityScore{
		DatasetID:    f.DatasetID,
		OverallScore: math.Max(0, math.Min(1, overall)),
		Components:   c,
		Issues:       s.issues(f),
	}
}

// ScoreAll scores every feature vector, preserving order.
func (s *Scorer) ScoreAll(features []models.FeatureVector) []models.QualityScore {
	out := make([]models.QualityScore, len(features))
	for i, f := range features {
		out[i] = s.Score(f)
	}
	return out
}

// MetadataScore awards 0.2 for each present field: title, description, category,
// at least one tag, and a recognized format. The result is capped at 1.0.
func MetadataScore(f models.FeatureVector) float64 {
	score := 0.0
	if f.TitleLength > 0 {
		score += 0.2
	}
	if f.DescriptionLength > 0 {
		score += 0.2
	}
	if f.HasCategory {
		score += 0.2
	}
	if f.NumTags > 0 {
		score += 0.2
	}
	if f.FormatScore > 0 {
		score += 0.2
	}
	return math.Min(score, 1.0)
}

// DescriptionScore grades description length in steps.
func DescriptionScore(f models.FeatureVector) float64 {
	if !f.HasDescription {
		return 0.0
	}
	switch n := f.DescriptionLength; {
	case n < 50:
		return 0.3
	case n < 100:
		return 0.6
	case n < 200:
		return 0.8
	default:
		return 1.0
	}
}

// CategoryScore is 1 when a category is present.
func CategoryScore(f models.FeatureVector) float64 {
	if f.HasCategory {
		return 1.0
	}
	return 0.0
}

// TagsScore grows linearly up to five tags.
func TagsScore(numTags int) float64 {
	if numTags <= 0 {
		return 0.0
	}
	return math.Min(float64(numTags)/5, 1.0)
}

func (s *Scorer) issues(f models.FeatureVector) []string {
	issues := make([]string, 0, 8)
	if f.TitleLength < 10 {
		issues = append(issues, IssueTitleTooShort)
	}
	if f.DescriptionLength < 50 {
		issues = append(issues, IssueInsufficientDescription)
	}
	if !f.HasCategory {
		issues = append(issues, IssueMissingCategory)
	}
	if f.NumTags < 3 {
		issues = append(issues, IssueFewTags)
	}
	if f.FormatScore < 0.7 {
		issues = append(issues, IssueSuboptimalFormat)
	}
	if f.LicenseScore < 0.8 {
		issues = append(issues, IssueRestrictiveLicense)
	}
	if f.FrequencyScore < 0.6 {
		issues = append(issues, IssueLowUpdateFrequency)
	}
	if f.DaysSinceUpdate > s.staleAfterDays {
		issues = append(issues, IssueStaleDataset)
	}
	return issues
}
