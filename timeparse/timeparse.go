/*
Copyright © 2016 the CIS authors.
This file is part of CIS.

CIS is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CIS is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CIS.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package timeparse parses the loose ISO 8601 date/time and duration
// grammar accepted by the CIS command line. The date and time parts of a
// date/time string may be separated by 'T', a space, or a colon.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateTimeSep separates a date/time string into its date and time parts at
// the first character that is one of 'T', ' ' or ':'. The colon doubles as
// the time component separator, so a time-only string like "12:30" would
// split as date "12", time "30"; that matches the historical behavior of
// the command line and is deliberately left alone.
var dateTimeSep = regexp.MustCompile(`^(?P<date>[^T :]+)[T :](?P<time>.+)$`)

// A MalformedDateError indicates that a string could not be interpreted
// as a (possibly partial) date/time.
type MalformedDateError struct {
	Input string
}

func (e MalformedDateError) Error() string {
	return fmt.Sprintf("timeparse: malformed date/time string '%s'", e.Input)
}

// A PartialDateTime is a date/time where only the leading components may
// be specified: a year alone, a year and month, and so on down to seconds.
// Time components can only be present when the date is fully specified.
type PartialDateTime struct {
	components []int
}

// NewPartialDateTime creates a PartialDateTime from between one and six
// components given in the order year, month, day, hour, minute, second.
func NewPartialDateTime(components ...int) (PartialDateTime, error) {
	if len(components) < 1 || len(components) > 6 {
		return PartialDateTime{}, fmt.Errorf("timeparse: a partial date/time requires between 1 and 6 components; got %d", len(components))
	}
	c := make([]int, len(components))
	copy(c, components)
	return PartialDateTime{components: c}, nil
}

// Components returns the specified components in order from the year
// downward.
func (p PartialDateTime) Components() []int {
	c := make([]int, len(p.components))
	copy(c, p.components)
	return c
}

func (p PartialDateTime) component(i int) (int, bool) {
	if i < len(p.components) {
		return p.components[i], true
	}
	return 0, false
}

// Year returns the year component and whether it was specified.
func (p PartialDateTime) Year() (int, bool) { return p.component(0) }

// Month returns the month component and whether it was specified.
func (p PartialDateTime) Month() (int, bool) { return p.component(1) }

// Day returns the day component and whether it was specified.
func (p PartialDateTime) Day() (int, bool) { return p.component(2) }

// Hour returns the hour component and whether it was specified.
func (p PartialDateTime) Hour() (int, bool) { return p.component(3) }

// Minute returns the minute component and whether it was specified.
func (p PartialDateTime) Minute() (int, bool) { return p.component(4) }

// Second returns the second component and whether it was specified.
func (p PartialDateTime) Second() (int, bool) { return p.component(5) }

// Lower completes the partial date/time to the earliest instant it could
// refer to, with unspecified components taking their minimum values.
func (p PartialDateTime) Lower() time.Time {
	c := [6]int{1, 1, 1, 0, 0, 0}
	for i, v := range p.components {
		c[i] = v
	}
	return time.Date(c[0], time.Month(c[1]), c[2], c[3], c[4], c[5], 0, time.UTC)
}

// Upper completes the partial date/time to the latest instant it could
// refer to, with unspecified components taking their maximum values. The
// day maximum depends on the specified (or maximum) month and year.
func (p PartialDateTime) Upper() time.Time {
	year, _ := p.Year()
	month := 12
	if m, ok := p.Month(); ok {
		month = m
	}
	day := daysInMonth(year, time.Month(month))
	if d, ok := p.Day(); ok {
		day = d
	}
	c := [6]int{year, month, day, 23, 59, 59}
	for i, v := range p.components {
		c[i] = v
	}
	return time.Date(c[0], time.Month(c[1]), c[2], c[3], c[4], c[5], 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (p PartialDateTime) String() string {
	s := make([]string, len(p.components))
	for i, c := range p.components {
		s[i] = strconv.Itoa(c)
	}
	return strings.Join(s, "-")
}

// ParsePartialDatetime parses a partial date/time string.
//
// The string should be in an ISO 8601 format except that the date and time
// parts may be separated by a space or colon instead of 'T'. Trailing
// components may be omitted, but time components may only appear after a
// full year-month-day date.
func ParsePartialDatetime(s string) (PartialDateTime, error) {
	dateStr := s
	var timeComponents []int
	if match := dateTimeSep.FindStringSubmatch(s); match != nil {
		dateStr = match[1]
		var err error
		timeComponents, err = splitInts(match[2], ":")
		if err != nil {
			return PartialDateTime{}, MalformedDateError{Input: s}
		}
	}
	dateComponents, err := splitInts(dateStr, "-")
	if err != nil {
		return PartialDateTime{}, MalformedDateError{Input: s}
	}
	if len(dateComponents) > 3 || len(timeComponents) > 3 ||
		(len(dateComponents) < 3 && len(timeComponents) > 0) {
		return PartialDateTime{}, MalformedDateError{Input: s}
	}
	return PartialDateTime{components: append(dateComponents, timeComponents...)}, nil
}

// splitInts splits s on sep and parses every token as an integer.
func splitInts(s, sep string) ([]int, error) {
	tokens := strings.Split(s, sep)
	out := make([]int, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
