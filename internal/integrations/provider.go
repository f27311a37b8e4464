// Package integrations connects external calendars to the planner. Providers
// are simulated: they return plausible canned events with artificial latency
// so the rest of the app can be exercised without real accounts.
package integrations

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Event is one external calendar entry.
type Event struct {
	Title           string
	Start           time.Time
	DurationMinutes int
	Source          string // provider name
}

// Provider fetches calendar events for a date range.
type Provider interface {
	// Name identifies the provider, e.g. "gcal".
	Name() string

	// Events returns events whose start falls within [start, end).
	Events(ctx context.Context, start, end time.Time) ([]Event, error)
}

// NewProvider creates a provider by kind.
func NewProvider(kind string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "gcal", "google":
		return newMockProvider("gcal", gcalSeed), nil
	case "outlook", "microsoft":
		return newMockProvider("outlook", outlookSeed), nil
	default:
		return nil, fmt.Errorf("unknown calendar provider: %s", kind)
	}
}

// seedEvent is a weekly recurring template a mock provider expands into
// concrete events.
type seedEvent struct {
	title   string
	weekday time.Weekday
	hour    int
	minute  int
	minutes int
}

var gcalSeed = []seedEvent{
	{"Team sync", time.Monday, 10, 0, 30},
	{"1:1 with manager", time.Wednesday, 14, 0, 30},
	{"Design review", time.Thursday, 11, 30, 60},
}

var outlookSeed = []seedEvent{
	{"Sprint planning", time.Monday, 9, 0, 60},
	{"All hands", time.Friday, 16, 0, 45},
}

// mockProvider expands its seed into concrete events and simulates network
// latency per request.
type mockProvider struct {
	name    string
	seed    []seedEvent
	latency time.Duration
}

func newMockProvider(name string, seed []seedEvent) *mockProvider {
	return &mockProvider{
		name:    name,
		seed:    seed,
		latency: 80 * time.Millisecond,
	}
}

func (p *mockProvider) Name() string { return p.name }

// Events returns the recurring seed events expanded over [start, end).
func (p *mockProvider) Events(ctx context.Context, start, end time.Time) ([]Event, error) {
	select {
	case <-time.After(p.latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var events []Event
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		for _, s := range p.seed {
			if day.Weekday() != s.weekday {
				continue
			}
			at := day.Add(time.Duration(s.hour)*time.Hour + time.Duration(s.minute)*time.Minute)
			if at.Before(start) || !at.Before(end) {
				continue
			}
			events = append(events, Event{
				Title:           s.title,
				Start:           at,
				DurationMinutes: s.minutes,
				Source:          p.name,
			})
		}
	}

	return events, nil
}
