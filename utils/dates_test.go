package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEndOfDay(t *testing.T) {
	in := time.Date(2026, 2, 28, 14, 30, 0, 0, time.UTC)
	got := EndOfDay(in)
	assert.Equal(t, time.Date(2026, 2, 28, 23, 59, 59, 999999999, time.UTC), got)

	// One nanosecond later is already the next day.
	assert.True(t, got.Add(time.Nanosecond).Day() == 1)
}

func TestBeginningOfMonth(t *testing.T) {
	in := time.Date(2026, 7, 19, 9, 15, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), BeginningOfMonth(in))
}
