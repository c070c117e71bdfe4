package entity

import "cloud.google.com/go/civil"

// ExportRow is the flat per-post record handed to export writers.
type ExportRow struct {
	PostID         string     `json:"post_id"`
	Content        string     `json:"content"`
	Date           civil.Date `json:"date"`
	SentimentScore NullScore  `json:"sentiment_score"`
	SentimentLabel string     `json:"sentiment_label"`
}
