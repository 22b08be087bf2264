// SPDX-FileCopyrightText: 2023 Christoph Mewes
// SPDX-License-Identifier: MIT

package grade

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"go.xrstf.de/project_grader/pkg/course"
)

const (
	// HumanLayout renders instants the way they appear in the grade logs,
	// e.g. "February 16, 2020 at 9:00 PM PST".
	HumanLayout = "January 2, 2006 at 3:04 PM MST"

	MaxGrade       = 100
	PenaltyPerWeek = 10
)

// ISO 8601 forms accepted for creation timestamps, tried in order. Seconds
// may carry a fraction in every layout that has them.
var (
	absoluteLayouts = []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05Z0700",
		"2006-01-02T15:04:05Z07",
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15:04Z0700",
		"2006-01-02T15:04Z07",
		"20060102T150405Z0700",
		"20060102T150405Z07",
		"20060102T1504Z0700",
		"20060102T1504Z07",
	}

	// without an offset, timestamps are civil time of the course
	localLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
		"20060102T150405",
		"20060102T1504",
		"20060102",
	}
)

type Result struct {
	Created  string `json:"created"`
	Deadline string `json:"deadline"`
	Late     int    `json:"late"`
	Grade    int    `json:"grade"`

	CreatedAt  time.Time `json:"-"`
	DeadlineAt time.Time `json:"-"`
	// DaysLate counts calendar days in the course time zone; 0 when on time.
	DaysLate float64 `json:"-"`
}

func (r *Result) OnTime() bool {
	return r.Late == 0
}

func (r *Result) JSON() (string, error) {
	encoded, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode grade result: %w", err)
	}

	return string(encoded), nil
}

type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unable to parse %q as an ISO 8601 timestamp", e.Value)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// Calculate grades a release created at the given ISO 8601 timestamp. It
// does not log or perform any I/O, identical input always yields an
// identical result.
func Calculate(c *course.Course, created string, project int, typ course.SubmissionType) (*Result, error) {
	loc := c.Location()

	createdAt, err := parseTimestamp(created, loc)
	if err != nil {
		return nil, err
	}

	deadline, err := c.Deadline(typ, project)
	if err != nil {
		return nil, err
	}

	deadline = deadline.In(loc)

	result := &Result{
		Created:    createdAt.Format(HumanLayout),
		Deadline:   deadline.Format(HumanLayout),
		CreatedAt:  createdAt,
		DeadlineAt: deadline,
	}

	// a release created exactly at the deadline is still on time
	if createdAt.After(deadline) {
		result.DaysLate = calendarDays(deadline, createdAt)
		result.Late = LateWeeks(result.DaysLate)
	}

	result.Grade = MaxGrade - PenaltyPerWeek*result.Late

	return result, nil
}

// LateWeeks turns a positive number of days past the deadline into the
// stepped weekly penalty count: anything within the first seven days is one
// week, every further started window of seven days adds one.
func LateWeeks(days float64) int {
	if days <= 0 {
		return 0
	}

	return 1 + int(math.Floor(days/7.0))
}

func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	// "t" and "z" are valid lowercase designators
	normalized := strings.ToUpper(value)

	for _, layout := range absoluteLayouts {
		if parsed, err := time.Parse(layout, normalized); err == nil {
			return parsed.In(loc), nil
		}
	}

	for _, layout := range localLayouts {
		if parsed, err := time.ParseInLocation(layout, normalized, loc); err == nil {
			return parsed, nil
		}
	}

	_, err := time.Parse(time.RFC3339, value)

	return time.Time{}, &DateParseError{Value: value, Err: err}
}

// calendarDays measures from..to in days of the local calendar of from's
// location, so that a day spanning a daylight saving switch still counts as
// exactly one day. Partial days are expressed as the fraction of the
// calendar day they fall into.
func calendarDays(from, to time.Time) float64 {
	to = to.In(from.Location())

	days := int(to.Sub(from) / (24 * time.Hour))
	for days > 0 && from.AddDate(0, 0, days).After(to) {
		days--
	}

	for !from.AddDate(0, 0, days+1).After(to) {
		days++
	}

	start := from.AddDate(0, 0, days)
	next := from.AddDate(0, 0, days+1)

	return float64(days) + float64(to.Sub(start))/float64(next.Sub(start))
}
