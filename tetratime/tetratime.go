// Package tetratime implements the TDMA time triple (tn, fn, mn) that
// identifies the current slot on the continuous downlink, per
// EN 300 392-2 §9.
package tetratime

import "fmt"

// Time is the TDMA time triple. Zero value is invalid; use New for the
// protocol's starting point.
type Time struct {
	TN int // time slot, 1..4
	FN int // frame number, 1..18
	MN int // multiframe number, 1..60
}

// New returns the TDMA time triple at its wrap origin (1,1,1).
func New() Time {
	return Time{TN: 1, FN: 1, MN: 1}
}

// Advance returns the next TDMA time, wrapping tn into fn into mn, per §3.
func (t Time) Advance() Time {
	t.TN++
	if t.TN > 4 {
		t.TN = 1
		t.FN++
	}
	if t.FN > 18 {
		t.FN = 1
		t.MN++
	}
	if t.MN > 60 {
		t.MN = 1
	}
	return t
}

func (t Time) String() string {
	return fmt.Sprintf("%d.%d.%d", t.TN, t.FN, t.MN)
}
