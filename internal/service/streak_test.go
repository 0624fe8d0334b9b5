package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextStreak(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	day := func(offset int) *time.Time {
		d := now.AddDate(0, 0, offset)
		return &d
	}

	assert.Equal(t, 1, NextStreak(0, nil, now))
	assert.Equal(t, 1, NextStreak(5, nil, now))
	assert.Equal(t, 1, NextStreak(0, day(-1), now))
	assert.Equal(t, 4, NextStreak(3, day(-1), now))
	assert.Equal(t, 3, NextStreak(3, day(0), now))
	assert.Equal(t, 1, NextStreak(3, day(-2), now))
	assert.Equal(t, 1, NextStreak(7, day(-30), now))

	t.Run("late evening yesterday counts", func(t *testing.T) {
		last := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
		early := time.Date(2024, 3, 10, 0, 1, 0, 0, time.UTC)
		assert.Equal(t, 2, NextStreak(1, &last, early))
	})

	t.Run("compared in the caller's timezone", func(t *testing.T) {
		loc := time.FixedZone("UTC+8", 8*3600)
		// 2024-03-09 20:00 UTC 为东八区 3 月 10 日
		last := time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)
		local := time.Date(2024, 3, 10, 10, 0, 0, 0, loc)
		assert.Equal(t, 2, NextStreak(2, &last, local))
	})
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, SameDay(a, a.Add(23*time.Hour)))
	assert.False(t, SameDay(a, a.Add(24*time.Hour)))
}
