package models

import "encoding/json"

// CrawlState is the lifecycle state of a URL submission on the backend.
type CrawlState string

const (
	CrawlPending   CrawlState = "pending"
	CrawlCrawling  CrawlState = "crawling"
	CrawlCompleted CrawlState = "completed"
	CrawlFailed    CrawlState = "failed"
)

// Done reports whether the backend will not change the state any further.
func (s CrawlState) Done() bool {
	return s == CrawlCompleted || s == CrawlFailed
}

// Submission is the response to POST /api/v1/submit-url.
type Submission struct {
	SubmissionID string     `json:"submission_id"`
	URL          string     `json:"url"`
	Status       CrawlState `json:"status"`
	Message      string     `json:"message"`
}

// CrawlStatus is the response to GET /api/v1/crawl-status/{id}.
// Timestamps are passed through as the backend formats them.
type CrawlStatus struct {
	SubmissionID string     `json:"submission_id"`
	URL          string     `json:"url"`
	Status       CrawlState `json:"status"`
	SubmittedAt  string     `json:"submitted_at,omitempty"`
	CompletedAt  string     `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// Report is the response to GET /api/v1/report/{id}. Metric and
// recommendation bodies are backend-defined and kept raw.
type Report struct {
	SubmissionID    string            `json:"submission_id"`
	URL             string            `json:"url"`
	SEOMetrics      json.RawMessage   `json:"seo_metrics"`
	Recommendations []json.RawMessage `json:"recommendations"`
	CrawledAt       string            `json:"crawled_at,omitempty"`
}

// ReportSummary is one entry of GET /api/v1/reports.
type ReportSummary struct {
	SubmissionID         string  `json:"submission_id"`
	URL                  string  `json:"url"`
	SEOScore             float64 `json:"seo_score"`
	RecommendationsCount int     `json:"recommendations_count"`
	CrawledAt            string  `json:"crawled_at,omitempty"`
}

// ReportList wraps GET /api/v1/reports.
type ReportList struct {
	Reports []ReportSummary `json:"reports"`
	Total   int             `json:"total"`
}

// Scheduler priorities and frequencies accepted by the backend.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	FrequencyHourly  = "hourly"
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyCustom  = "custom"
)

// ScheduleRequest is the POST /api/v1/advanced/schedule-crawl body. An empty
// Frequency schedules a single run.
type ScheduleRequest struct {
	URL            string `json:"url"`
	Priority       string `json:"priority"`
	Frequency      string `json:"frequency,omitempty"`
	CustomInterval *int   `json:"custom_interval,omitempty"`
}

// ScheduleResult is the response to a schedule-crawl request.
type ScheduleResult struct {
	ScheduleID string `json:"schedule_id"`
	Message    string `json:"message"`
	URL        string `json:"url"`
	Priority   string `json:"priority"`
}

// ScheduledCrawl is one entry of GET /api/v1/advanced/scheduled-crawls.
type ScheduledCrawl struct {
	ID        string `json:"_id"`
	URL       string `json:"url"`
	Priority  string `json:"priority"`
	Frequency string `json:"frequency"`
	Status    string `json:"status"`
	NextCrawl string `json:"next_crawl,omitempty"`
}

// ScheduledCrawls wraps the scheduled-crawls listing.
type ScheduledCrawls struct {
	Crawls []ScheduledCrawl `json:"scheduled_crawls"`
	Total  int              `json:"total"`
}
