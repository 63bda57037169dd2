package summary

import (
	"strconv"
	"time"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
)

// LabelLayout formats the bounds of a StatusWeek label.
const LabelLayout = "Mon Jan 02 2006"

// DeriveDate returns the calendar day a task is bucketed on.
//
// An explicit dateTime.date wins. Otherwise the HH and MM digits of startTime
// are read as day and month of year. When that is not a real date they are
// read the other way round, as month and day. ok is false when neither
// reading is a valid date.
func DeriveDate(dt domain.DateTime, year int, loc *time.Location) (time.Time, bool) {
	if dt.Date != "" {
		d, err := time.ParseInLocation(domain.DateLayout, dt.Date, loc)
		if err != nil {
			return time.Time{}, false
		}
		return d, true
	}

	if len(dt.StartTime) != 5 || dt.StartTime[2] != ':' {
		return time.Time{}, false
	}
	hh, err := strconv.Atoi(dt.StartTime[:2])
	if err != nil {
		return time.Time{}, false
	}
	mm, err := strconv.Atoi(dt.StartTime[3:])
	if err != nil {
		return time.Time{}, false
	}

	if d, ok := calendarDate(year, mm, hh, loc); ok {
		return d, true
	}
	return calendarDate(year, hh, mm, loc)
}

func calendarDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// WeekStartMonday returns midnight of the Monday starting t's week. Weekly
// summary buckets use Monday weeks.
func WeekStartMonday(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return midnight(t).AddDate(0, 0, -offset)
}

// WeekStartSunday returns midnight of the Sunday starting t's week. The
// status mini-summary uses Sunday weeks.
func WeekStartSunday(t time.Time) time.Time {
	return midnight(t).AddDate(0, 0, -int(t.Weekday()))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
