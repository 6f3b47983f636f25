package models

// Recommendation is one ranked dataset returned by a recommendation query.
type Recommendation struct {
	DatasetID        string   `json:"dataset_id"`
	Title            string   `json:"title"`
	SimilarityScore  float64  `json:"similarity_score"`
	CommonTags       []string `json:"common_tags"`
	CommonCategories []string `json:"common_categories"`
}

// RecommendResponse wraps the results of a RecommendQuery.
type RecommendResponse struct {
	Mode            RecommendMode    `json:"mode"`
	Recommendations []Recommendation `json:"recommendations"`
	Total           int              `json:"total"`
	QueryTime       int64            `json:"query_time_ms"`
	Generation      uint64           `json:"index_generation"`
}
