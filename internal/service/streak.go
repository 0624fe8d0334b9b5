package service

import (
	"time"
)

// dayNumber 当地日历日序号
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// NextStreak 根据上次活动日期计算连续学习天数，日期按 now 所在时区比较
func NextStreak(current int, lastActivity *time.Time, now time.Time) int {
	if lastActivity == nil || current <= 0 {
		return 1
	}

	gap := dayNumber(now) - dayNumber(lastActivity.In(now.Location()))
	switch {
	case gap == 0:
		return current
	case gap == 1:
		return current + 1
	default:
		return 1
	}
}

// SameDay 是否同一日历日
func SameDay(a, b time.Time) bool {
	return dayNumber(a) == dayNumber(b.In(a.Location()))
}
