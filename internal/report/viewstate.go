package report

import (
	"sync"

	"fintrack/internal/core"
)

// WindowSelector guards the report state of a single viewer against
// out-of-order fetch responses. Every selection hands out a monotonically
// increasing ticket; a response is committed only when its ticket is still
// the latest issued, so a slow fetch for a superseded window can never
// overwrite the state of the current one. Discard is silent, not an error.
type WindowSelector struct {
	mu      sync.Mutex
	seq     uint64
	current core.Window

	summary   core.SummaryReport
	breakdown core.CategoryBreakdown
	loaded    bool
}

// Ticket identifies one issued fetch.
type Ticket struct {
	seq    uint64
	Window core.Window
}

// Select records a new window choice and returns the ticket the caller must
// present when the fetch for it resolves.
func (s *WindowSelector) Select(w core.Window) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.current = w
	s.loaded = false
	return Ticket{seq: s.seq, Window: w}
}

// Apply commits a fetched report if the ticket is still the latest. It
// reports whether the state was updated.
func (s *WindowSelector) Apply(t Ticket, sum core.SummaryReport, bd core.CategoryBreakdown) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.seq != s.seq {
		return false
	}
	s.summary = sum
	s.breakdown = bd
	s.loaded = true
	return true
}

// Fail clears the loading state for a failed fetch without touching any
// previously committed data, and only if the ticket is still current.
func (s *WindowSelector) Fail(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.seq == s.seq
}

// Current returns the selected window, the committed report pair, and
// whether a report for the current selection has been applied yet.
func (s *WindowSelector) Current() (core.Window, core.SummaryReport, core.CategoryBreakdown, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.summary, s.breakdown, s.loaded
}
