package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rankrocket/rankrocket-cli/internal/client/client"
	"github.com/rankrocket/rankrocket-cli/internal/client/models"
	"github.com/rankrocket/rankrocket-cli/internal/logging"
)

const DefaultPollInterval = 3 * time.Second

var (
	ErrInvalidURL      = errors.New("enter a valid http or https URL")
	ErrInvalidSchedule = errors.New("invalid schedule")
)

var (
	priorities  = []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent}
	frequencies = []string{models.FrequencyHourly, models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyCustom}
)

// CrawlService wraps the SEO API for the CLI: URL submission, status polling,
// reports and scheduling. All calls go through the authenticated client.
type CrawlService interface {
	Submit(ctx context.Context, rawURL string) (*models.Submission, error)
	Status(ctx context.Context, submissionID string) (*models.CrawlStatus, error)
	WaitForCrawl(ctx context.Context, submissionID string, onUpdate func(*models.CrawlStatus)) (*models.CrawlStatus, error)
	Report(ctx context.Context, submissionID string) (*models.Report, error)
	Reports(ctx context.Context, skip, limit int) ([]models.ReportSummary, error)
	Schedule(ctx context.Context, req models.ScheduleRequest) (*models.ScheduleResult, error)
	ScheduledCrawls(ctx context.Context, status string) (*models.ScheduledCrawls, error)
	Statistics(ctx context.Context) (map[string]any, error)
}

type crawlService struct {
	api      client.CrawlAPI
	clock    clockwork.Clock
	interval time.Duration
	log      logging.Logger
}

func NewCrawlService(api client.CrawlAPI, clock clockwork.Clock, pollInterval time.Duration, log logging.Logger) CrawlService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &crawlService{api: api, clock: clock, interval: pollInterval, log: log.With("component", "crawl")}
}

// ValidateURL accepts absolute http and https URLs with a host and returns
// them trimmed.
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidURL
	}
	return raw, nil
}

func (s *crawlService) Submit(ctx context.Context, rawURL string) (*models.Submission, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	sub, err := s.api.SubmitURL(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("submit %s: %w", target, err)
	}
	s.log.Info(ctx, "url submitted", "url", target, "submission_id", sub.SubmissionID)
	return sub, nil
}

func (s *crawlService) Status(ctx context.Context, submissionID string) (*models.CrawlStatus, error) {
	return s.api.CrawlStatus(ctx, submissionID)
}

// WaitForCrawl polls until the crawl completes or fails, calling onUpdate
// whenever the state changes. It returns the last status seen together with
// ctx's error if ctx ends first.
func (s *crawlService) WaitForCrawl(ctx context.Context, submissionID string, onUpdate func(*models.CrawlStatus)) (*models.CrawlStatus, error) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	var (
		last  *models.CrawlStatus
		state models.CrawlState
	)
	for {
		st, err := s.api.CrawlStatus(ctx, submissionID)
		if err != nil {
			return last, err
		}
		last = st
		if st.Status != state {
			state = st.Status
			if onUpdate != nil {
				onUpdate(st)
			}
		}
		if st.Status.Done() {
			return st, nil
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.Chan():
		}
	}
}

func (s *crawlService) Report(ctx context.Context, submissionID string) (*models.Report, error) {
	return s.api.Report(ctx, submissionID)
}

func (s *crawlService) Reports(ctx context.Context, skip, limit int) ([]models.ReportSummary, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 10
	}
	return s.api.Reports(ctx, skip, limit)
}

func (s *crawlService) Schedule(ctx context.Context, req models.ScheduleRequest) (*models.ScheduleResult, error) {
	target, err := ValidateURL(req.URL)
	if err != nil {
		return nil, err
	}
	req.URL = target

	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !slices.Contains(priorities, req.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidSchedule, req.Priority)
	}
	if req.Frequency != "" && !slices.Contains(frequencies, req.Frequency) {
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidSchedule, req.Frequency)
	}
	if req.Frequency == models.FrequencyCustom && (req.CustomInterval == nil || *req.CustomInterval <= 0) {
		return nil, fmt.Errorf("%w: custom frequency needs a positive interval", ErrInvalidSchedule)
	}

	res, err := s.api.ScheduleCrawl(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", target, err)
	}
	return res, nil
}

func (s *crawlService) ScheduledCrawls(ctx context.Context, status string) (*models.ScheduledCrawls, error) {
	return s.api.ScheduledCrawls(ctx, status)
}

func (s *crawlService) Statistics(ctx context.Context) (map[string]any, error) {
	return s.api.CrawlStatistics(ctx)
}
