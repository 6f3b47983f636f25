package quality

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/metaboost/internal/config"
	"github.com/hyperjump/metaboost/internal/models"
)

const epsilon = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < epsilon }

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestDefaultWeights_SumToOne(t *testing.T) {
	if sum := DefaultWeights().Sum(); !approx(sum, 1.0) {
		t.Errorf("weights sum to %v, want 1.0", sum)
	}
}

func TestScorer_PDFRecordWithSingleTag(t *testing.T) {
	rec := models.DatasetRecord{
		ID:     "pdf-1",
		Title:  "Mobiliario urbano deportivos",
		Format: "PDF",
		Tags:   []string{"deporte"},
	}
	if n := len([]rune(rec.Title)); n != 28 {
		t.Fatalf("fixture title length = %d, want 28", n)
	}

	f := NewExtractor(WithClock(fixedClock)).Extract(rec)
	score := NewScorer(0).Score(f)
	c := score.Components

	if !approx(c.Format, 0.5) || !approx(c.License, 0.5) || !approx(c.Frequency, 0.5) {
		t.Errorf("table scores: format=%v license=%v frequency=%v", c.Format, c.License, c.Frequency)
	}
	if c.Category != 0 || c.Description != 0 {
		t.Errorf("category=%v description=%v, want 0", c.Category, c.Description)
	}
	if !approx(c.Tags, 0.2) {
		t.Errorf("tags = %v, want 0.2", c.Tags)
	}
	// title, one tag and a recognized format each add 0.2.
	if !approx(c.Metadata, 0.6) {
		t.Errorf("metadata = %v, want 0.6", c.Metadata)
	}
	want := 0.6*0.30 + 0.5*0.20 + 0.5*0.15 + 0.5*0.15 + 0.2*0.05
	if !approx(score.OverallScore, want) {
		t.Errorf("overall = %v, want %v", score.OverallScore, want)
	}
	if b := Bucket(score.OverallScore); b != "fair" {
		t.Errorf("bucket = %s, want fair", b)
	}

	wantIssues := []string{
		IssueInsufficientDescription,
		IssueMissingCategory,
		IssueFewTags,
		IssueSuboptimalFormat,
		IssueRestrictiveLicense,
		IssueLowUpdateFrequency,
	}
	if !reflect.DeepEqual(score.Issues, wantIssues) {
		t.Errorf("issues = %v, want %v", score.Issues, wantIssues)
	}
}

func TestScorer_PDFRecordWithoutTags(t *testing.T) {
	f := models.FeatureVector{
		DatasetID:      "pdf-2",
		TitleLength:    28,
		FormatScore:    0.5,
		LicenseScore:   0.5,
		FrequencyScore: 0.5,
	}
	score := NewScorer(0).Score(f)
	if !approx(score.Components.Metadata, 0.4) {
		t.Errorf("metadata = %v, want 0.4", score.Components.Metadata)
	}
	if !approx(score.OverallScore, 0.37) {
		t.Errorf("overall = %v, want 0.37", score.OverallScore)
	}
	if Bucket(score.OverallScore) != "poor" {
		t.Errorf("bucket = %s, want poor", Bucket(score.OverallScore))
	}
}

func TestScorer_PerfectRecord(t *testing.T) {
	rec := models.DatasetRecord{
		ID:          "best",
		Title:       "Líneas y paradas de autobús EMT",
		Description: strings.Repeat("Información detallada de la red de autobuses. ", 6),
		Format:      "csv",
		License:     "cc-by",
		Frequency:   "Daily",
		Category:    "transporte",
		Tags:        []string{"bus", "emt", "transporte", "movilidad", "paradas", "lineas"},
		LastUpdated: fixedNow.Add(-48 * time.Hour),
	}
	score := NewScorer(0).Score(NewExtractor(WithClock(fixedClock)).Extract(rec))
	if !approx(score.OverallScore, 1.0) {
		t.Errorf("overall = %v, want 1.0", score.OverallScore)
	}
	if len(score.Issues) != 0 {
		t.Errorf("expected no issues, got %v", score.Issues)
	}
}

func TestScorer_OverallWithinUnitInterval(t *testing.T) {
	s := NewScorer(0)
	for _, titleLen := range []int{0, 5, 50} {
		for _, descLen := range []int{0, 10, 60, 150, 500} {
			for _, tags := range []int{0, 1, 3, 5, 12} {
				for _, fs := range []float64{0, 0.3, 1} {
					for _, cat := range []bool{false, true} {
						f := models.FeatureVector{
							TitleLength:       titleLen,
							DescriptionLength: descLen,
							HasDescription:    descLen > 0,
							HasCategory:       cat,
							NumTags:           tags,
							FormatScore:       fs,
							LicenseScore:      fs,
							FrequencyScore:    fs,
							DaysSinceUpdate:   400,
						}
						got := s.Score(f)
						if got.OverallScore < 0 || got.OverallScore > 1 {
							t.Fatalf("overall %v out of range for %+v", got.OverallScore, f)
						}
						c := got.Components
						w := DefaultWeights()
						sum := c.Metadata*w.Metadata + c.Format*w.Format + c.License*w.License +
							c.Frequency*w.Frequency + c.Description*w.Description + c.Category*w.Category + c.Tags*w.Tags
						if !approx(sum, got.OverallScore) {
							t.Fatalf("overall %v != weighted sum %v", got.OverallScore, sum)
						}
					}
				}
			}
		}
	}
}

func TestTagsScore_Monotonic(t *testing.T) {
	prev := TagsScore(0)
	if prev != 0 {
		t.Fatalf("TagsScore(0) = %v", prev)
	}
	for n := 1; n <= 5; n++ {
		cur := TagsScore(n)
		if cur <= prev {
			t.Errorf("TagsScore(%d)=%v not greater than TagsScore(%d)=%v", n, cur, n-1, prev)
		}
		prev = cur
	}
	if prev != 1.0 {
		t.Errorf("TagsScore(5) = %v, want 1.0", prev)
	}
	for n := 6; n < 20; n++ {
		if TagsScore(n) != 1.0 {
			t.Errorf("TagsScore(%d) = %v, want flat 1.0", n, TagsScore(n))
		}
	}
}

func TestDescriptionScore(t *testing.T) {
	tests := []struct {
		length int
		want   float64
	}{
		{0, 0.0}, {1, 0.3}, {49, 0.3}, {50, 0.6}, {99, 0.6}, {100, 0.8}, {199, 0.8}, {200, 1.0}, {5000, 1.0},
	}
	for _, tt := range tests {
		f := models.FeatureVector{DescriptionLength: tt.length, HasDescription: tt.length > 0}
		if got := DescriptionScore(f); got != tt.want {
			t.Errorf("DescriptionScore(len=%d) = %v, want %v", tt.length, got, tt.want)
		}
	}
	whitespace := models.FeatureVector{DescriptionLength: 80, HasDescription: false}
	if DescriptionScore(whitespace) != 0 {
		t.Error("whitespace-only description should score 0")
	}
}

func TestScorer_StaleThreshold(t *testing.T) {
	f := models.FeatureVector{DaysSinceUpdate: 200, TitleLength: 20}
	if contains(NewScorer(0).Score(f).Issues, IssueStaleDataset) {
		t.Error("200 days should not be stale with default threshold")
	}
	if !contains(NewScorer(180).Score(f).Issues, IssueStaleDataset) {
		t.Error("200 days should be stale with 180-day threshold")
	}
	f.DaysSinceUpdate = 365
	if contains(NewScorer(0).Score(f).Issues, IssueStaleDataset) {
		t.Error("exactly 365 days is not stale")
	}
}

func TestAnalyzer_ConfigOverrides(t *testing.T) {
	a := NewAnalyzer(&config.ScoringConfig{
		FormatScores: map[string]float64{"GeoJSON": 0.9, "pdf": 0.2},
	}, WithClock(fixedClock))
	feats := a.Features([]models.DatasetRecord{{Format: "geojson"}, {Format: "PDF"}, {Format: "csv"}})
	if !approx(feats[0].FormatScore, 0.9) || !approx(feats[1].FormatScore, 0.2) || !approx(feats[2].FormatScore, 1.0) {
		t.Errorf("format scores: %v %v %v", feats[0].FormatScore, feats[1].FormatScore, feats[2].FormatScore)
	}
	if len(a.Score(nil)) != 0 {
		t.Error("scoring nil records should return empty slice")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
