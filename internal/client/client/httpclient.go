package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rankrocket/rankrocket-cli/internal/client/models"
	"github.com/rankrocket/rankrocket-cli/internal/common"
	"github.com/rankrocket/rankrocket-cli/internal/logging"
)

// maxErrorBody caps how much of a failed response is read for its detail.
const maxErrorBody = 1 << 20

// DefaultRequestTimeout bounds calls made through a client built without an
// explicit *http.Client.
const DefaultRequestTimeout = 10 * time.Second

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultRequestTimeout}
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

var (
	_ AuthAPI  = (*HTTPClient)(nil)
	_ CrawlAPI = (*HTTPClient)(nil)
)

// NewHTTPClient binds a JSON client to baseURL. httpClient decides transport
// and timeout; pass the result of NewAuthenticatedHTTPClient to get bearer
// injection. A nil httpClient gets DefaultRequestTimeout.
func NewHTTPClient(baseURL string, httpClient *http.Client, log logging.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log.With("component", "api_client"),
	}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	var tok models.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, models.Credentials{Email: email, Password: password}, nil, &tok)
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, errors.New("login response carries no access token")
	}
	return &tok, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, reg, nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context, tokenType, accessToken string) (*models.UserProfile, error) {
	h := http.Header{}
	h.Set(common.AuthorizationHeader, common.BearerValue(tokenType, accessToken))

	var user models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, h, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) GoogleAuthURL(ctx context.Context) (string, error) {
	var ga models.GoogleAuth
	if err := c.do(ctx, http.MethodGet, "/auth/google", nil, nil, nil, &ga); err != nil {
		return "", err
	}
	if ga.AuthURL == "" {
		return "", errors.New("google auth response carries no auth_url")
	}
	return ga.AuthURL, nil
}

func (c *HTTPClient) Logout(ctx context.Context, accessToken string) error {
	h := http.Header{}
	if accessToken != "" {
		h.Set(common.AuthorizationHeader, common.BearerValue("", accessToken))
	}
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, h, nil)
}

func (c *HTTPClient) SubmitURL(ctx context.Context, target string) (*models.Submission, error) {
	var s models.Submission
	body := map[string]string{"url": target}
	if err := c.do(ctx, http.MethodPost, "/api/v1/submit-url", nil, body, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) CrawlStatus(ctx context.Context, submissionID string) (*models.CrawlStatus, error) {
	var st models.CrawlStatus
	if err := c.do(ctx, http.MethodGet, "/api/v1/crawl-status/"+url.PathEscape(submissionID), nil, nil, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *HTTPClient) Report(ctx context.Context, submissionID string) (*models.Report, error) {
	var r models.Report
	if err := c.do(ctx, http.MethodGet, "/api/v1/report/"+url.PathEscape(submissionID), nil, nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) Reports(ctx context.Context, skip, limit int) ([]models.ReportSummary, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var list models.ReportList
	if err := c.do(ctx, http.MethodGet, "/api/v1/reports", q, nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Reports, nil
}

func (c *HTTPClient) ScheduleCrawl(ctx context.Context, req models.ScheduleRequest) (*models.ScheduleResult, error) {
	var res models.ScheduleResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/advanced/schedule-crawl", nil, req, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ScheduledCrawls(ctx context.Context, status string) (*models.ScheduledCrawls, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": {status}}
	}
	var res models.ScheduledCrawls
	if err := c.do(ctx, http.MethodGet, "/api/v1/advanced/scheduled-crawls", q, nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) CrawlStatistics(ctx context.Context) (map[string]any, error) {
	var stats map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/v1/advanced/crawl-statistics", nil, nil, nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// do sends one JSON request. out may be nil when the body is ignored.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in any, header http.Header, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeader, reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
		c.log.Debug(ctx, "request rejected", "method", method, "path", path, "request_id", reqID, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// readDetail extracts the human-readable message from an error body. The
// backend sends {"detail": "..."}; validation failures carry a list instead,
// which yields "".
func readDetail(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(b) == 0 {
		return ""
	}
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		return ""
	}
	var detail string
	if len(payload.Detail) > 0 && json.Unmarshal(payload.Detail, &detail) == nil && detail != "" {
		return detail
	}
	return payload.Message
}
