package sim

import "aimtrain/internal/session"

// InputKind tags an input log row.
type InputKind string

const (
	InputStart InputKind = "start"
	InputTick  InputKind = "tick"
	InputClick InputKind = "click"
	InputAbort InputKind = "abort"
)

// InputRow is one line of an input log. The start row carries the seed and
// settings needed to rebuild the session.
type InputRow struct {
	Seq      int               `json:"seq"`
	Kind     InputKind         `json:"kind"`
	DT       float64           `json:"dt,omitempty"`
	X        float64           `json:"x,omitempty"`
	Y        float64           `json:"y,omitempty"`
	Inside   bool              `json:"inside,omitempty"`
	Seed     int64             `json:"seed,omitempty"`
	Settings *session.Settings `json:"settings,omitempty"`
}
