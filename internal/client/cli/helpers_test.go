package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/rankrocket/rankrocket-cli/internal/client/client"
	"github.com/rankrocket/rankrocket-cli/internal/client/guard"
	"github.com/rankrocket/rankrocket-cli/internal/client/models"
	"github.com/rankrocket/rankrocket-cli/internal/client/services"
	"github.com/rankrocket/rankrocket-cli/internal/client/session"
	"github.com/rankrocket/rankrocket-cli/internal/logging"
)

func stubInputs(t *testing.T, texts []string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(texts) {
			return "", io.EOF
		}
		i++
		return texts[i-1], nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

// ---- fake auth service ----

type fakeAuth struct {
	store *session.Store

	LoginRes    services.Result
	RegisterRes services.Result
	GoogleRes   services.Result
	CallbackRes services.Result

	lastEmail    string
	lastPassword string
	lastFullName string
	lastCallback string
	calls        []string
}

var _ services.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) Hydrate(ctx context.Context) session.State {
	f.calls = append(f.calls, "hydrate")
	return f.store.Resolve()
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) services.Result {
	f.calls = append(f.calls, "login")
	f.lastEmail, f.lastPassword = email, password
	if f.LoginRes.Success {
		f.store.Dispatch(session.LoginSuccess{User: &models.UserProfile{Email: email, FullName: "Jane Doe"}, Token: "abc"})
	} else {
		f.store.Dispatch(session.LoginError{Message: f.LoginRes.Error})
	}
	return f.LoginRes
}

func (f *fakeAuth) Register(ctx context.Context, email, password, fullName string) services.Result {
	f.calls = append(f.calls, "register")
	f.lastEmail, f.lastPassword, f.lastFullName = email, password, fullName
	return f.RegisterRes
}

func (f *fakeAuth) Logout(ctx context.Context) services.Result {
	f.calls = append(f.calls, "logout")
	f.store.Dispatch(session.Logout{})
	return services.Result{Success: true}
}

func (f *fakeAuth) LoginWithGoogle(ctx context.Context) services.Result {
	f.calls = append(f.calls, "google")
	return f.GoogleRes
}

func (f *fakeAuth) HandleOAuthCallback(ctx context.Context, rawQuery string) services.Result {
	f.calls = append(f.calls, "callback")
	f.lastCallback = rawQuery
	if f.CallbackRes.Success {
		f.store.Dispatch(session.LoginSuccess{User: &models.UserProfile{Email: "g@example.com"}, Token: "goog"})
	}
	return f.CallbackRes
}

func (f *fakeAuth) ClearError() {
	f.calls = append(f.calls, "clear_error")
	f.store.Dispatch(session.ClearError{})
}

func (f *fakeAuth) State() session.State { return f.store.Snapshot() }

func (f *fakeAuth) AuthenticatedClient() client.CrawlAPI { return nil }

// ---- fake crawl service ----

type fakeCrawl struct {
	SubmitRet  *models.Submission
	SubmitErr  error
	StatusRet  *models.CrawlStatus
	WaitSteps  []models.CrawlState
	ReportRet  *models.Report
	ReportsRet []models.ReportSummary
	SchedRet   *models.ScheduleResult
	SchedErr   error
	CrawlsRet  *models.ScheduledCrawls
	StatsRet   map[string]any
	Err        error

	// OnCall runs inside every call, e.g. to simulate a forced logout.
	OnCall func()

	calls        []string
	lastSchedule models.ScheduleRequest
	lastSkip     int
	lastLimit    int
}

var _ services.CrawlService = (*fakeCrawl)(nil)

func (f *fakeCrawl) hit(name string) {
	f.calls = append(f.calls, name)
	if f.OnCall != nil {
		f.OnCall()
	}
}

func (f *fakeCrawl) Submit(ctx context.Context, rawURL string) (*models.Submission, error) {
	f.hit("submit " + rawURL)
	return f.SubmitRet, f.SubmitErr
}

func (f *fakeCrawl) Status(ctx context.Context, id string) (*models.CrawlStatus, error) {
	f.hit("status " + id)
	return f.StatusRet, f.Err
}

func (f *fakeCrawl) WaitForCrawl(ctx context.Context, id string, onUpdate func(*models.CrawlStatus)) (*models.CrawlStatus, error) {
	f.hit("wait " + id)
	var last *models.CrawlStatus
	for _, s := range f.WaitSteps {
		last = &models.CrawlStatus{SubmissionID: id, Status: s, URL: "https://example.com"}
		onUpdate(last)
	}
	return last, f.Err
}

func (f *fakeCrawl) Report(ctx context.Context, id string) (*models.Report, error) {
	f.hit("report " + id)
	return f.ReportRet, f.Err
}

func (f *fakeCrawl) Reports(ctx context.Context, skip, limit int) ([]models.ReportSummary, error) {
	f.hit("reports")
	f.lastSkip, f.lastLimit = skip, limit
	return f.ReportsRet, f.Err
}

func (f *fakeCrawl) Schedule(ctx context.Context, req models.ScheduleRequest) (*models.ScheduleResult, error) {
	f.hit("schedule")
	f.lastSchedule = req
	return f.SchedRet, f.SchedErr
}

func (f *fakeCrawl) ScheduledCrawls(ctx context.Context, status string) (*models.ScheduledCrawls, error) {
	f.hit("scheduled " + status)
	return f.CrawlsRet, f.Err
}

func (f *fakeCrawl) Statistics(ctx context.Context) (map[string]any, error) {
	f.hit("stats")
	return f.StatsRet, f.Err
}

// ---- fake callback receiver ----

type fakeCallback struct {
	StartErr error
	Query    string
	WaitErr  error

	started, shutdown bool
}

func (c *fakeCallback) Start() error { c.started = true; return c.StartErr }
func (c *fakeCallback) URL() string  { return "http://127.0.0.1:3000/auth" }
func (c *fakeCallback) Wait(ctx context.Context) (string, error) {
	return c.Query, c.WaitErr
}
func (c *fakeCallback) Shutdown(ctx context.Context) error { c.shutdown = true; return nil }

type testApp struct {
	*App
	auth *fakeAuth
	fc   *fakeCrawl
	cb   *fakeCallback
	buf  *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store := session.NewStore()
	store.Resolve()

	auth := &fakeAuth{store: store, LoginRes: services.Result{Success: true}, RegisterRes: services.Result{Success: true}}
	crawl := &fakeCrawl{}
	cb := &fakeCallback{}
	out := &bytes.Buffer{}
	nav := &routeNavigator{}

	app := &App{
		store:       store,
		authService: auth,
		crawl:       crawl,
		guard:       guard.New(nav, "/auth"),
		nav:         nav,
		newCallback: func() callbackReceiver { return cb },
		reader:      bufio.NewReader(strings.NewReader("")),
		out:         out,
		log:         logging.NewNop(),
	}
	return &testApp{App: app, auth: auth, fc: crawl, cb: cb, buf: out}
}

func (ta *testApp) signIn() {
	ta.store.Dispatch(session.LoginSuccess{User: &models.UserProfile{Email: "user@example.com", FullName: "Jane Doe"}, Token: "abc"})
}
