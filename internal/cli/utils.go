// Package cli provides CLI output writers for metaboost.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/hyperjump/metaboost/internal/models"
	"github.com/hyperjump/metaboost/internal/quality"
	"github.com/hyperjump/metaboost/pkg/utils"
)

// OutputFormat is the format for report and recommendation output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one line per item, tab separated.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const titleWidth = 60

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteReport writes an analysis report to w in the given format.
// Unknown formats fall back to text.
func WriteReport(w io.Writer, report *models.Report, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, report)
	case OutputCompact:
		for _, s := range report.Scores {
			fmt.Fprintf(w, "%s\t%.2f\t%s\t%d\n", s.DatasetID, s.OverallScore, quality.Bucket(s.OverallScore), len(s.Issues))
		}
		return nil
	default:
		writeReportText(w, report)
		return nil
	}
}

func writeReportText(w io.Writer, report *models.Report) {
	sum := report.Summary
	d := sum.ScoreDistribution
	fmt.Fprintf(w, "\nAnalyzed %d datasets (report %s)\n", sum.TotalDatasets, report.ID)
	fmt.Fprintf(w, "Average score: %.2f\n", sum.AverageScore)
	fmt.Fprintf(w, "Distribution: excellent %d | good %d | fair %d | poor %d\n\n", d.Excellent, d.Good, d.Fair, d.Poor)

	if len(sum.CommonIssues) > 0 {
		fmt.Fprintln(w, "--- Common issues ---")
		for _, ic := range sum.CommonIssues {
			fmt.Fprintf(w, "%6d  %s\n", ic.Count, ic.Issue)
		}
		fmt.Fprintln(w)
	}
	if len(report.Problems) > 0 {
		fmt.Fprintf(w, "--- Problematic datasets (%d) ---\n", len(report.Problems))
		for _, p := range report.Problems {
			fmt.Fprintf(w, "[%s] %s\n", p.ID, utils.Truncate(p.Title, titleWidth))
			for _, problem := range p.Problems {
				fmt.Fprintf(w, "  - %s\n", problem)
			}
		}
	}
}

// WriteRecommendations writes a recommendation response to w in the given format.
// Unknown formats fall back to text.
func WriteRecommendations(w io.Writer, resp *models.RecommendResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, resp)
	case OutputCompact:
		for i, r := range resp.Recommendations {
			fmt.Fprintf(w, "%d\t%.4f\t%s\t%s\n", i+1, r.SimilarityScore, r.DatasetID, utils.Truncate(r.Title, titleWidth))
		}
		return nil
	default:
		writeRecommendationsText(w, resp)
		return nil
	}
}

func writeRecommendationsText(w io.Writer, resp *models.RecommendResponse) {
	fmt.Fprintf(w, "\nFound %d recommendations (by %s) in %dms\n\n", resp.Total, resp.Mode, resp.QueryTime)
	for i, r := range resp.Recommendations {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Similarity: %.4f\n", i+1, r.SimilarityScore)
		fmt.Fprintf(w, "ID: %s\n", r.DatasetID)
		if r.Title != "" {
			fmt.Fprintf(w, "Title: %s\n", r.Title)
		}
		if len(r.CommonTags) > 0 {
			fmt.Fprintf(w, "Common tags: %s\n", strings.Join(r.CommonTags, ", "))
		}
		if len(r.CommonCategories) > 0 {
			fmt.Fprintf(w, "Common categories: %s\n", strings.Join(r.CommonCategories, ", "))
		}
		fmt.Fprintln(w)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
