package domain

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to processing", StatusPending, StatusProcessing, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to shipped skips processing", StatusPending, StatusShipped, false},
		{"pending to delivered skips everything", StatusPending, StatusDelivered, false},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"processing to cancelled", StatusProcessing, StatusCancelled, true},
		{"processing to delivered skips shipped", StatusProcessing, StatusDelivered, false},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"shipped to cancelled", StatusShipped, StatusCancelled, false},
		{"delivered is terminal", StatusDelivered, StatusProcessing, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"cancelled cannot be cancelled again", StatusCancelled, StatusCancelled, false},
		{"refunded is terminal", StatusRefunded, StatusPending, false},
		{"unknown status has no transitions", Status("bogus"), StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusRefunded.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.False(t, StatusShipped.Terminal())
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded} {
		assert.True(t, ValidStatus(s), string(s))
	}
	assert.False(t, ValidStatus(Status("shipped_back")))
	assert.False(t, ValidStatus(Status("")))
}

func TestNewOrderCodeFormat(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	code := NewOrderCode(CodePrefixOnline, now)
	require.Regexp(t, regexp.MustCompile(`^ORD-20260315-[0-9A-F]{8}$`), code)

	sale := NewOrderCode(CodePrefixDirectSale, now)
	require.Regexp(t, regexp.MustCompile(`^DS-20260315-[0-9A-F]{8}$`), sale)
}

func TestNewOrderCodeUniqueUnderConcurrency(t *testing.T) {
	const n = 200
	now := time.Now()

	var mu sync.Mutex
	seen := make(map[string]struct{}, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code := NewOrderCode(CodePrefixOnline, now)
			mu.Lock()
			seen[code] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}
