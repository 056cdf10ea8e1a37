package domain

import "time"

// Article is a clipped news item; URL is its identity.
type Article struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Key returns the identity used for deduplication.
func (a Article) Key() string {
	return a.URL
}

// Complete reports whether both title and body were captured.
func (a Article) Complete() bool {
	return a.Title != "" && a.Body != ""
}

// ReportedArticle is an archive row linking an article to the report that carried it.
type ReportedArticle struct {
	URL        string
	Title      string
	ReportDate time.Time
}
