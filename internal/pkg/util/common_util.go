package util

import (
	"MarketPulse/internal/model"
	"time"
)

// Today 返回 UTC 日历日期字符串
func Today(now time.Time) string {
	return now.UTC().Format(model.DateLayout)
}

// DayDiff 计算两个时刻之间相差的 UTC 日历天数，to 早于 from 时为负
func DayDiff(from, to time.Time) int {
	f := truncateDay(from)
	t := truncateDay(to)
	return int(t.Sub(f).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfDay 返回 now 所在 UTC 日的零点
func StartOfDay(now time.Time) time.Time {
	return truncateDay(now)
}

