package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rankrocket/rankrocket-cli/internal/client/client"
	"github.com/rankrocket/rankrocket-cli/internal/client/models"
	"github.com/rankrocket/rankrocket-cli/internal/client/services"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	fmt.Fprintln(a.out, "Usage:", text)
	return errUsage
}

// userMessage turns a command error into the line shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidURL), errors.Is(err, services.ErrInvalidSchedule):
		return err.Error()
	case errors.Is(err, client.ErrUnauthorized):
		return client.Message(err, "Your session has expired, please sign in again")
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, try again later"
	}
	return client.Message(err, "Request failed")
}

// Submit sends a URL for crawling. With --wait it follows the crawl until it
// finishes.
func (a *App) Submit(ctx context.Context, args []string) error {
	url, wait := "", false
	for _, arg := range args {
		if arg == "--wait" || arg == "-w" {
			wait = true
			continue
		}
		url = arg
	}
	if url == "" {
		return a.usage("submit <url> [--wait]")
	}

	return a.protected(ctx, func(ctx context.Context) error {
		sub, err := a.crawl.Submit(ctx, url)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Submitted %s (id %s, %s)\n", sub.URL, sub.SubmissionID, sub.Status)
		if !wait {
			return nil
		}
		return a.waitFor(ctx, sub.SubmissionID)
	})
}

func (a *App) Status(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("status <submission-id> [--wait]")
	}
	id := args[0]
	wait := len(args) > 1 && (args[1] == "--wait" || args[1] == "-w")

	return a.protected(ctx, func(ctx context.Context) error {
		if wait {
			return a.waitFor(ctx, id)
		}
		st, err := a.crawl.Status(ctx, id)
		if err != nil {
			return err
		}
		a.printStatus(st)
		return nil
	})
}

func (a *App) waitFor(ctx context.Context, id string) error {
	st, err := a.crawl.WaitForCrawl(ctx, id, a.printStatus)
	if err != nil {
		return err
	}
	if st.Status == models.CrawlCompleted {
		fmt.Fprintf(a.out, "Report ready: report %s\n", id)
	}
	return nil
}

func (a *App) printStatus(st *models.CrawlStatus) {
	line := fmt.Sprintf("%s  %s  %s", st.SubmissionID, st.Status, st.URL)
	if st.ErrorMessage != "" {
		line += "  (" + st.ErrorMessage + ")"
	}
	fmt.Fprintln(a.out, line)
}

func (a *App) Report(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("report <submission-id>")
	}

	return a.protected(ctx, func(ctx context.Context) error {
		r, err := a.crawl.Report(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Report for %s\n", r.URL)
		if r.CrawledAt != "" {
			fmt.Fprintf(a.out, "Crawled at: %s\n", r.CrawledAt)
		}

		var metrics map[string]any
		if len(r.SEOMetrics) > 0 && json.Unmarshal(r.SEOMetrics, &metrics) == nil {
			if score, ok := metrics["seo_score"]; ok {
				fmt.Fprintf(a.out, "SEO score: %v\n", score)
			}
		}

		fmt.Fprintf(a.out, "Recommendations: %d\n", len(r.Recommendations))
		for i, raw := range r.Recommendations {
			var rec struct {
				Title    string `json:"title"`
				Priority string `json:"priority"`
			}
			if json.Unmarshal(raw, &rec) != nil || rec.Title == "" {
				continue
			}
			if rec.Priority != "" {
				fmt.Fprintf(a.out, "  %d. [%s] %s\n", i+1, rec.Priority, rec.Title)
			} else {
				fmt.Fprintf(a.out, "  %d. %s\n", i+1, rec.Title)
			}
		}
		return nil
	})
}

func (a *App) Reports(ctx context.Context, args []string) error {
	skip, limit := 0, 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return a.usage("reports [skip] [limit]")
		}
		skip = n
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return a.usage("reports [skip] [limit]")
		}
		limit = n
	}

	return a.protected(ctx, func(ctx context.Context) error {
		list, err := a.crawl.Reports(ctx, skip, limit)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(a.out, "No reports yet")
			return nil
		}
		for _, r := range list {
			fmt.Fprintf(a.out, "%s  %5.1f  %2d recs  %s\n", r.SubmissionID, r.SEOScore, r.RecommendationsCount, r.URL)
		}
		return nil
	})
}

// Schedule books a crawl: schedule <url> [priority] [frequency] [interval-hours].
func (a *App) Schedule(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("schedule <url> [low|medium|high|urgent] [hourly|daily|weekly|monthly|custom] [interval]")
	}
	req := models.ScheduleRequest{URL: args[0]}
	if len(args) > 1 {
		req.Priority = strings.ToLower(args[1])
	}
	if len(args) > 2 {
		req.Frequency = strings.ToLower(args[2])
	}
	if len(args) > 3 {
		n, err := strconv.Atoi(args[3])
		if err != nil {
			return a.usage("interval must be a whole number")
		}
		req.CustomInterval = &n
	}

	return a.protected(ctx, func(ctx context.Context) error {
		res, err := a.crawl.Schedule(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Scheduled %s (id %s, priority %s)\n", res.URL, res.ScheduleID, res.Priority)
		return nil
	})
}

func (a *App) Scheduled(ctx context.Context, args []string) error {
	status := ""
	if len(args) > 0 {
		status = args[0]
	}

	return a.protected(ctx, func(ctx context.Context) error {
		res, err := a.crawl.ScheduledCrawls(ctx, status)
		if err != nil {
			return err
		}
		if len(res.Crawls) == 0 {
			fmt.Fprintln(a.out, "No scheduled crawls")
			return nil
		}
		for _, c := range res.Crawls {
			freq := c.Frequency
			if freq == "" {
				freq = "once"
			}
			fmt.Fprintf(a.out, "%s  %-8s %-7s %-8s %s\n", c.ID, c.Status, c.Priority, freq, c.URL)
		}
		return nil
	})
}

func (a *App) Stats(ctx context.Context) error {
	return a.protected(ctx, func(ctx context.Context) error {
		stats, err := a.crawl.Statistics(ctx)
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(a.out, "%s: %v\n", k, stats[k])
		}
		return nil
	})
}
