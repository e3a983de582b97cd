// Package schedule expands assignment schedule rules into concrete calendar
// dates. Everything here is pure: no I/O, no shared state, safe for
// concurrent use.
package schedule

import (
	"alcyxob/workout-engine/internal/domain"
)

// Expand resolves one assignment into the dates it occurs on within the
// inclusive range [rangeStart, rangeEnd].
//
// Assignments arrive from an external admin workflow and are not validated
// upstream, so malformed rules (empty recurrence days, start after end,
// missing scheduled date) expand to no occurrences rather than failing.
func Expand(a domain.Assignment, rangeStart, rangeEnd domain.Date) []domain.Date {
	if rangeEnd.Before(rangeStart) {
		return nil
	}

	switch a.ScheduleType {
	case domain.ScheduleOnce:
		return expandOnce(a, rangeStart, rangeEnd)
	case domain.ScheduleWeekly:
		return expandWeekly(a, rangeStart, rangeEnd)
	default:
		return nil
	}
}

func expandOnce(a domain.Assignment, rangeStart, rangeEnd domain.Date) []domain.Date {
	if a.ScheduledDate == nil {
		return nil
	}
	d := *a.ScheduledDate
	if d.Before(rangeStart) || d.After(rangeEnd) {
		return nil
	}
	return []domain.Date{d}
}

func expandWeekly(a domain.Assignment, rangeStart, rangeEnd domain.Date) []domain.Date {
	if len(a.RecurrenceDays) == 0 {
		return nil
	}
	if a.StartDate != nil && a.EndDate != nil && a.EndDate.Before(*a.StartDate) {
		return nil
	}

	wanted := make(map[int]bool, len(a.RecurrenceDays))
	for _, wd := range a.RecurrenceDays {
		if wd >= 0 && wd <= 6 {
			wanted[wd] = true
		}
	}
	if len(wanted) == 0 {
		return nil
	}

	var dates []domain.Date
	for d := rangeStart; !d.After(rangeEnd); d = d.AddDays(1) {
		if !wanted[d.Weekday()] {
			continue
		}
		if a.StartDate != nil && d.Before(*a.StartDate) {
			continue
		}
		if a.EndDate != nil && d.After(*a.EndDate) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}
