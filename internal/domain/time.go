package domain

import (
	"bytes"
	"strconv"
	"time"
)

// Millis is a timestamp carried on the wire as Unix milliseconds, matching
// the stored snapshot format. The zero value marshals as JSON null.
type Millis struct {
	time.Time
}

func NewMillis(t time.Time) Millis {
	return Millis{Time: t}
}

func MillisPtr(t time.Time) *Millis {
	m := NewMillis(t)
	return &m
}

func (m Millis) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(m.UnixMilli(), 10)), nil
}

func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		m.Time = time.Time{}
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		// Tolerate fractional timestamps produced by Date.now() arithmetic.
		f, ferr := strconv.ParseFloat(string(data), 64)
		if ferr != nil {
			return err
		}
		ms = int64(f)
	}
	m.Time = time.UnixMilli(ms)
	return nil
}

// StartOfDay normalizes t to local midnight. Due dates carry day granularity;
// all calendar comparisons use the local-time policy uniformly.
func StartOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
