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
	"math"
	"strconv"
	"time"
)

// standardEpoch is the reference instant of the CIS standard time unit:
// days since 1600-01-01 00:00:00 UTC.
var standardEpoch = time.Date(1600, time.January, 1, 0, 0, 0, 0, time.UTC)

// StandardTime converts an instant to the CIS standard time unit,
// fractional days since 1600-01-01 00:00:00 UTC.
func StandardTime(t time.Time) float64 {
	// time.Time.Sub would overflow over a 400-year span, so work in
	// integer seconds.
	return float64(t.Unix()-standardEpoch.Unix()) / 86400.0
}

// FromStandardTime converts a value in the CIS standard time unit back to
// an instant. The result is rounded to the nearest millisecond; float64
// cannot resolve the standard unit more finely than a few microseconds at
// this distance from the epoch.
func FromStandardTime(days float64) time.Time {
	msec := int64(math.Round(days * 86400.0 * 1e3))
	return time.Unix(standardEpoch.Unix()+msec/1000, msec%1000*1e6).UTC()
}

// An InvalidValueError indicates that a string is neither a number, a
// date/time, nor a date/time step.
type InvalidValueError struct {
	Input string
}

func (e InvalidValueError) Error() string {
	return fmt.Sprintf("'%s' is not a valid value.", e.Input)
}

// ValueKind discriminates the alternatives held by a Value.
type ValueKind int

const (
	// NumberValue means the value is a plain number.
	NumberValue ValueKind = iota
	// DateTimeValue means the value is a (partial) date/time.
	DateTimeValue
	// DeltaValue means the value is a date/time step.
	DeltaValue
)

// A Value is the result of coercing a command-line string that may be a
// number, a date/time or a date/time step.
type Value struct {
	Kind     ValueKind
	Number   float64
	DateTime PartialDateTime
	Delta    DateDelta
}

// ParseAsNumberOrDatetime parses a string as a number, or failing that as
// a date/time converted to the standard time unit. Integer, float,
// date/time and duration interpretations are tried in that order, the
// last two both yielding fractional days.
func ParseAsNumberOrDatetime(s string) (float64, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return float64(v), nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	if dt, err := ParsePartialDatetime(s); err == nil {
		return StandardTime(dt.Lower()), nil
	}
	if days, err := ParseDurationToFloatDays(s); err == nil {
		return days, nil
	}
	return 0, InvalidValueError{Input: s}
}

// ParseAsNumberOrPartialDatetime parses a string as a number, a partial
// date/time, or a date/time step, trying each interpretation in that
// order.
func ParseAsNumberOrPartialDatetime(s string) (Value, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return Value{Kind: NumberValue, Number: float64(v)}, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Value{Kind: NumberValue, Number: v}, nil
	}
	if dt, err := ParsePartialDatetime(s); err == nil {
		return Value{Kind: DateTimeValue, DateTime: dt}, nil
	}
	if d, err := ParseDatetimeDelta(s); err == nil {
		return Value{Kind: DeltaValue, Delta: d}, nil
	}
	return Value{}, InvalidValueError{Input: s}
}
