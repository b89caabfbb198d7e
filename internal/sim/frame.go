package sim

import (
	"aimtrain/internal/arena"
	"aimtrain/internal/scoring"
	"aimtrain/internal/session"
)

// FrameWriter receives a snapshot of the session after every tick.
type FrameWriter interface {
	WriteFrame(Frame) error
}

// FrameTarget is a live target in a Frame.
type FrameTarget struct {
	ID     int         `json:"id"`
	Center arena.Point `json:"center"`
	// Progress is the tracking dwell fraction; 0 for static targets.
	Progress float64 `json:"progress"`
}

// Frame is a point-in-time view of a running session.
type Frame struct {
	Mode            scoring.Mode  `json:"mode"`
	State           string        `json:"state"`
	Arena           arena.Bounds  `json:"arena"`
	Diameter        float64       `json:"diameter"`
	TargetCount     int           `json:"target_count"`
	DurationSeconds float64       `json:"duration_seconds"`
	Elapsed         float64       `json:"elapsed"`
	Remaining       float64       `json:"remaining"`
	Hits            int           `json:"hits"`
	Misses          int           `json:"misses"`
	Cursor          arena.Point   `json:"cursor"`
	Targets         []FrameTarget `json:"targets"`
}

// Completion is how far the run is, in [0,1]: elapsed time for tracking,
// targets hit otherwise.
func (f Frame) Completion() float64 {
	var c float64
	switch {
	case f.Mode == scoring.ModeTracking && f.DurationSeconds > 0:
		c = f.Elapsed / f.DurationSeconds
	case f.Mode != scoring.ModeTracking && f.TargetCount > 0:
		c = float64(f.Hits) / float64(f.TargetCount)
	}
	return min(max(c, 0), 1)
}

func snapshotFrame(s *session.Session, cursor arena.Point) Frame {
	st := s.Settings()
	m := s.Metrics()
	f := Frame{
		Mode:            st.Mode,
		State:           s.State().String(),
		Arena:           st.Arena,
		Diameter:        st.Diameter,
		TargetCount:     st.TargetCount,
		DurationSeconds: st.DurationSeconds,
		Elapsed:         s.Elapsed(),
		Remaining:       s.Remaining(),
		Hits:            m.Hits,
		Misses:          m.Misses,
		Cursor:          cursor,
	}
	if st.Mode == scoring.ModeTracking {
		for _, t := range s.TrackingTargets() {
			f.Targets = append(f.Targets, FrameTarget{ID: t.ID, Center: t.Center(), Progress: s.Progress(t)})
		}
		return f
	}
	for _, t := range s.Targets() {
		f.Targets = append(f.Targets, FrameTarget{ID: t.ID, Center: t.Center()})
	}
	return f
}
