// Package timeutil converts between the date and time encodings used by
// the broadcaster schedule APIs: 4-digit HHMM (MBC), 6-digit HHMMSS
// (KBS), colon-delimited HH:MM (SBS) and the YYYYMMDD request dates.
package timeutil

import (
	"fmt"
	"strconv"
	"time"
)

// TodayKey returns the calendar-day token used for schedule cache
// validity, in the local timezone.
func TodayKey(now time.Time) string {
	return now.Format("2006-01-02")
}

// DateKey returns the YYYYMMDD form used by the MBC and KBS APIs.
func DateKey(now time.Time) string {
	return now.Format("20060102")
}

// HHMM encodes a reference time the way MBC schedule entries encode
// program boundaries.
func HHMM(t time.Time) string {
	return t.Format("1504")
}

// HHMMSS encodes a reference time the way KBS schedule entries encode
// program boundaries.
func HHMMSS(t time.Time) string {
	return t.Format("150405")
}

// FormatHHMM converts "HHMM" to the display form "HH:MM". Anything that
// is not exactly four characters is returned unchanged so callers can
// display unparseable upstream values as-is.
func FormatHHMM(s string) string {
	if len(s) != 4 {
		return s
	}
	return s[0:2] + ":" + s[2:4]
}

// FormatHHMMSS converts "HHMMSS" to the display form "HH:MM". Anything
// that is not exactly six characters is returned unchanged.
func FormatHHMMSS(s string) string {
	if len(s) != 6 {
		return s
	}
	return s[0:2] + ":" + s[2:4]
}

// ClockMinutes parses "HH:MM" (seconds, if present, are ignored) into a
// minute-of-day value for airing-now comparisons.
func ClockMinutes(s string) (int, bool) {
	var h, m int
	if n, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil || n != 2 {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// MinuteOfDay returns the minute-of-day for a reference time.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

var koreanWeekdays = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// DayOfWeek returns the Korean single-character weekday for a YYYYMMDD
// date string, or "" when the input does not parse.
func DayOfWeek(dateKey string) string {
	d, err := time.ParseInLocation("20060102", dateKey, time.Local)
	if err != nil {
		return ""
	}
	return koreanWeekdays[int(d.Weekday())]
}

// FormatDateDisplay renders a YYYYMMDD date in the long Korean form
// used by the schedule pages, e.g. "2025년 09월 23일 (화)". Inputs that
// are not eight digits are returned unchanged.
func FormatDateDisplay(dateKey string) string {
	if len(dateKey) != 8 {
		return dateKey
	}
	if _, err := strconv.Atoi(dateKey); err != nil {
		return dateKey
	}
	return fmt.Sprintf("%s년 %s월 %s일 (%s)",
		dateKey[0:4], dateKey[4:6], dateKey[6:8], DayOfWeek(dateKey))
}
