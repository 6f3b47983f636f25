// Package models defines core data structures for catalog datasets, quality scores, and recommendations.
package models

import "time"

// DatasetRecord is one catalog entry as delivered by the catalog loader.
// The scorer and the recommender treat it as read-only.
type DatasetRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Format      string    `json:"format"`
	License     string    `json:"license"`
	Frequency   string    `json:"frequency"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	LastUpdated time.Time `json:"last_updated"`
	URL         string    `json:"url,omitempty"`
}

// FeatureVector holds the numeric features extracted from a DatasetRecord.
type FeatureVector struct {
	DatasetID         string  `json:"dataset_id"`
	TitleLength       int     `json:"title_length"`
	DescriptionLength int     `json:"description_length"`
	HasDescription    bool    `json:"has_description"`
	HasCategory       bool    `json:"has_category"`
	NumTags           int     `json:"num_tags"`
	FormatScore       float64 `json:"format_score"`
	LicenseScore      float64 `json:"license_score"`
	FrequencyScore    float64 `json:"frequency_score"`
	DaysSinceUpdate   int     `json:"days_since_update"`
}

// ProblematicDataset lists the metadata problems found for a single dataset.
type ProblematicDataset struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Problems []string `json:"problems"`
}
