package client

import (
	"context"

	"github.com/rankrocket/rankrocket-cli/internal/client/models"
)

// AuthAPI is the backend's /auth surface. These calls never go through the
// authenticated request factory: the caller passes the credential explicitly.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	Register(ctx context.Context, reg models.Registration) error
	Me(ctx context.Context, tokenType, accessToken string) (*models.UserProfile, error)
	GoogleAuthURL(ctx context.Context) (string, error)
	Logout(ctx context.Context, accessToken string) error
}

// CrawlAPI is the backend's /api/v1 surface.
type CrawlAPI interface {
	SubmitURL(ctx context.Context, url string) (*models.Submission, error)
	CrawlStatus(ctx context.Context, submissionID string) (*models.CrawlStatus, error)
	Report(ctx context.Context, submissionID string) (*models.Report, error)
	Reports(ctx context.Context, skip, limit int) ([]models.ReportSummary, error)
	ScheduleCrawl(ctx context.Context, req models.ScheduleRequest) (*models.ScheduleResult, error)
	ScheduledCrawls(ctx context.Context, status string) (*models.ScheduledCrawls, error)
	CrawlStatistics(ctx context.Context) (map[string]any, error)
}
