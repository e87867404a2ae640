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

package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// deltaSep splits a duration string (after the leading 'P') into its date
// and time halves. The same separator characters are accepted as for
// date/time strings.
var deltaSep = regexp.MustCompile(`^P(?P<date>[^T :]+)?(?:[T :])?(?P<time>.+)?$`)

// deltaToken matches one <digits><unit> token within a duration half.
var deltaToken = regexp.MustCompile(`[0-9]*[A-Z]`)

// A MalformedDurationError indicates that a string could not be
// interpreted as an ISO 8601 duration.
type MalformedDurationError struct {
	Input string
}

func (e MalformedDurationError) Error() string {
	return fmt.Sprintf("timeparse: duration '%s' is not in ISO 8601 format, for example P2Y3M4DT5H6M7S", e.Input)
}

// A DateDelta is a duration expressed as counts of calendar and clock
// units. It represents a step size, not an absolute point in time.
type DateDelta struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// ParseDatetimeDelta parses a date/time step such as "P2Y3M4DT5H6M7S"
// into a DateDelta. The match is case-insensitive. Date units are Y, M
// and D; time units (after the separator) are H, M and S. If a unit
// appears more than once the last occurrence wins.
func ParseDatetimeDelta(s string) (DateDelta, error) {
	up := strings.ToUpper(s)
	match := deltaSep.FindStringSubmatch(up)
	if match == nil {
		return DateDelta{}, MalformedDurationError{Input: s}
	}
	dateTokens := deltaToken.FindAllString(match[1], -1)
	timeTokens := deltaToken.FindAllString(match[2], -1)

	var d DateDelta
	for _, token := range dateTokens {
		val, err := strconv.Atoi(token[:len(token)-1])
		if err != nil {
			return DateDelta{}, MalformedDurationError{Input: s}
		}
		switch token[len(token)-1] {
		case 'Y':
			d.Year = val
		case 'M':
			d.Month = val
		case 'D':
			d.Day = val
		default:
			return DateDelta{}, MalformedDurationError{Input: s}
		}
	}
	for _, token := range timeTokens {
		val, err := strconv.Atoi(token[:len(token)-1])
		if err != nil {
			return DateDelta{}, MalformedDurationError{Input: s}
		}
		switch token[len(token)-1] {
		case 'H':
			d.Hour = val
		case 'M':
			d.Minute = val
		case 'S':
			d.Second = val
		default:
			return DateDelta{}, MalformedDurationError{Input: s}
		}
	}
	return d, nil
}

// FloatDays converts the delta to a duration in days. Months and years
// are approximated using the mean Gregorian year of 365.2425 days; there
// is no anchor date, so the conversion cannot be calendar-exact and is
// not meant to be.
func (d DateDelta) FloatDays() float64 {
	const sec = 1.0 / (24.0 * 60.0 * 60.0)
	days := float64(d.Day) + float64(d.Month)*365.2425/12.0 + float64(d.Year)*365.2425
	totalSeconds := days*24.0*60.0*60.0 + float64(d.Hour)*3600.0 +
		float64(d.Minute)*60.0 + float64(d.Second)
	return totalSeconds * sec
}

// ParseDurationToFloatDays parses a date/time step such as "P1MT30M" and
// converts it to a duration in days.
func ParseDurationToFloatDays(s string) (float64, error) {
	d, err := ParseDatetimeDelta(s)
	if err != nil {
		return 0, err
	}
	return d.FloatDays(), nil
}
