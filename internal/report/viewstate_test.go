package report

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"fintrack/internal/core"
)

func TestStaleResponseSuppressed(t *testing.T) {
	var sel WindowSelector

	// Rapid selector change: (3,2024) then (4,2024) before the first fetch
	// resolves.
	t1 := sel.Select(core.Window{Month: 3, Year: 2024})
	t2 := sel.Select(core.Window{Month: 4, Year: 2024})

	march := core.SummaryReport{Month: 3, Year: 2024, TransactionCount: 10}
	april := core.SummaryReport{Month: 4, Year: 2024, TransactionCount: 2}

	// The second fetch resolves first.
	assert.True(t, sel.Apply(t2, april, core.CategoryBreakdown{}))
	// The superseded one arrives late and is discarded silently.
	assert.False(t, sel.Apply(t1, march, core.CategoryBreakdown{}))

	w, sum, _, loaded := sel.Current()
	assert.True(t, loaded)
	assert.Equal(t, core.Window{Month: 4, Year: 2024}, w)
	assert.Equal(t, 4, sum.Month)
	assert.Equal(t, 2, sum.TransactionCount)
}

func TestStaleArrivalOrderIrrelevant(t *testing.T) {
	var sel WindowSelector
	t1 := sel.Select(core.Window{Month: 3, Year: 2024})
	t2 := sel.Select(core.Window{Month: 4, Year: 2024})

	// Old response first, then the current one.
	assert.False(t, sel.Apply(t1, core.SummaryReport{Month: 3}, core.CategoryBreakdown{}))
	assert.True(t, sel.Apply(t2, core.SummaryReport{Month: 4}, core.CategoryBreakdown{}))

	_, sum, _, loaded := sel.Current()
	assert.True(t, loaded)
	assert.Equal(t, 4, sum.Month)
}

func TestFailedFetchClearsOnlyCurrentTicket(t *testing.T) {
	var sel WindowSelector
	t1 := sel.Select(core.Window{Month: 1, Year: 2024})
	t2 := sel.Select(core.Window{Month: 2, Year: 2024})

	assert.False(t, sel.Fail(t1), "failure of a superseded fetch is ignored")
	assert.True(t, sel.Fail(t2))
}

func TestConcurrentAppliesKeepLatest(t *testing.T) {
	var sel WindowSelector

	tickets := make([]Ticket, 20)
	for i := range tickets {
		tickets[i] = sel.Select(core.Window{Month: i%12 + 1, Year: 2024})
	}
	last := tickets[len(tickets)-1]

	var wg sync.WaitGroup
	for i, tk := range tickets {
		wg.Add(1)
		go func(i int, tk Ticket) {
			defer wg.Done()
			sel.Apply(tk, core.SummaryReport{TransactionCount: i}, core.CategoryBreakdown{})
		}(i, tk)
	}
	wg.Wait()

	w, sum, _, loaded := sel.Current()
	assert.Equal(t, last.Window, w)
	if loaded {
		assert.Equal(t, len(tickets)-1, sum.TransactionCount)
	}
}
