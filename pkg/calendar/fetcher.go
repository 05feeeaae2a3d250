// Package calendar imports weekly recurring events from iCal feeds as tasks.
package calendar

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/jonboulle/clockwork"
)

const fetchTimeout = 30 * time.Second

// TaskReplacer receives the tasks imported from one source
type TaskReplacer interface {
	ReplaceFromSource(sourceID string, tasks []models.Task) error
}

// Fetcher downloads iCal feeds and turns them into weekly tasks
type Fetcher struct {
	client *http.Client
	clock  clockwork.Clock
	loc    *time.Location
}

// NewFetcher creates a Fetcher. A nil client gets a default one with a timeout.
func NewFetcher(client *http.Client, clk clockwork.Clock) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Fetcher{client: client, clock: clk, loc: time.Local}
}

// FetchTasks fetches one source and returns its tasks
func (f *Fetcher) FetchTasks(ctx context.Context, source models.ICalSource) ([]models.Task, error) {
	url := source.URL
	if strings.HasPrefix(url, "webcal://") {
		url = "https://" + strings.TrimPrefix(url, "webcal://")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	bodyStr := strings.TrimPrefix(string(body), "\ufeff")
	if err := validateICalFormat(bodyStr); err != nil {
		return nil, err
	}

	return ParseTasks(strings.NewReader(bodyStr), source.ID, f.loc, f.clock.Now())
}

// Sync fetches every valid source and hands its tasks to dst. A failing source
// keeps its previously imported tasks. It returns the number of imported tasks.
func (f *Fetcher) Sync(ctx context.Context, sources []models.ICalSource, dst TaskReplacer) (int, error) {
	total := 0
	var failed []string

	for _, source := range sources {
		if !source.Validate() {
			continue
		}

		tasks, err := f.FetchTasks(ctx, source)
		if err != nil {
			log.Printf("Error fetching iCal source '%s' (%s): %v", source.Name, source.URL, err)
			failed = append(failed, source.Name)
			continue
		}
		if err := dst.ReplaceFromSource(source.ID, tasks); err != nil {
			log.Printf("Failed to store tasks from '%s': %v", source.Name, err)
			failed = append(failed, source.Name)
			continue
		}

		total += len(tasks)
		log.Printf("Synced %d weekly tasks from '%s'", len(tasks), source.Name)
	}

	if len(failed) > 0 {
		return total, fmt.Errorf("failed to sync %s", strings.Join(failed, ", "))
	}
	return total, nil
}

func validateICalFormat(bodyStr string) error {
	trimmed := strings.TrimSpace(bodyStr)

	// Login pages come back as HTML with a 200
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "<!DOCTYPE") || strings.HasPrefix(upper, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data - check if URL requires authentication")
	}

	if !strings.HasPrefix(trimmed, "BEGIN:VCALENDAR") {
		preview := trimmed
		if len(preview) > 100 {
			preview = preview[:100]
		}
		return fmt.Errorf("invalid iCalendar format - expected BEGIN:VCALENDAR, got: %s", preview)
	}

	return nil
}
