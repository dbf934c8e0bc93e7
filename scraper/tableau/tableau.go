package tableau

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"time"

	"github.com/chromedp/chromedp"

	"alice-pipeline/config"
	"alice-pipeline/utils"
)

// Dashboards published by the survey vendor. The viz markup is
// undocumented and changes without notice, so everything here is
// best-effort: capture what we can, log what we can't.
var vizURLs = []string{
	"https://public.tableau.com/views/UnitedForALICE-Maps/Story",
	"https://public.tableau.com/views/National_Demographics_2023/Dashboard1",
}

// jsonPatterns are the places Tableau is known to embed bootstrap data
// in the served page.
var jsonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)bootstrapSession\s*=\s*(\{.+?\});`),
	regexp.MustCompile(`(?s)initialDataModel\s*=\s*(\{.+?\});`),
	regexp.MustCompile(`(?s)"data":\s*(\[.+?\])`),
	regexp.MustCompile(`(?s)"values":\s*(\[.+?\])`),
}

// Capture is one piece of embedded JSON pulled out of a dashboard page.
type Capture struct {
	Source    string          `json:"source"`
	Pattern   string          `json:"pattern"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Scraper drives a headless browser over the vendor dashboards and
// extracts whatever embedded JSON the pages carry.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a ready-to-use Tableau Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Scrape visits each dashboard and returns every capture it managed to
// extract. A dashboard that yields nothing is logged, not an error;
// the returned error is only non-nil when the browser cannot start at all.
func (s *Scraper) Scrape(ctx context.Context) ([]Capture, error) {
	chromeBin := findChromeBinary()
	s.logger.Info("[tableau] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()

	var captures []Capture
	for _, url := range vizURLs {
		s.logger.Info("[tableau] Scraping %s", url)

		html, err := s.fetchPage(silentCtx, url)
		if err != nil {
			s.logger.Error("[tableau] %s failed: %v", url, err)
			continue
		}

		found := extractEmbeddedJSON(html, url)
		if len(found) == 0 {
			s.logger.Warn("[tableau] No embedded data found in %s", url)
			continue
		}
		s.logger.Info("[tableau] Extracted %d embedded blocks from %s", len(found), url)
		captures = append(captures, found...)
	}

	s.logger.Info("[tableau] Scrape complete — %d captures", len(captures))
	return captures, nil
}

// fetchPage loads a dashboard and returns the fully-rendered page
// source, including the bootstrap config Tableau writes into a
// textarea before the viz initializes.
func (s *Scraper) fetchPage(allocCtx context.Context, url string) (string, error) {
	var html string

	err := s.retry.Do("tableau-page", func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 90*time.Second)
		defer cancelTimeout()

		var page string
		err := chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.Sleep(8*time.Second),

			chromedp.Evaluate(`
				(function() {
					// Tableau parks its session bootstrap in a config textarea.
					var cfg = document.querySelector('textarea#tsConfigContainer');
					var parts = [];
					if (cfg && cfg.value) parts.push(cfg.value);
					parts.push(document.documentElement.outerHTML);
					return parts.join('\n');
				})()
			`, &page),
		)
		if err != nil {
			return fmt.Errorf("chromedp page fetch: %w", err)
		}

		html = page
		return nil
	})

	return html, err
}

// extractEmbeddedJSON applies each known pattern to the page text and
// keeps only matches that parse as JSON.
func extractEmbeddedJSON(text, sourceURL string) []Capture {
	var captures []Capture

	for _, pattern := range jsonPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if len(match) < 2 {
				continue
			}
			if !json.Valid([]byte(match[1])) {
				continue
			}
			captures = append(captures, Capture{
				Source:    sourceURL,
				Pattern:   pattern.String(),
				Timestamp: time.Now(),
				Data:      json.RawMessage(match[1]),
			})
		}
	}
	return captures
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
