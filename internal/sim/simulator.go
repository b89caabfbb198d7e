// Runner driving a challenge session and writing its results
package sim

import (
	"sync"
	"time"

	"aimtrain/internal/record"
	"aimtrain/internal/session"
)

// RecordWriter receives completed runs.
type RecordWriter interface {
	WriteRecord(record.Record) error
}

// InputWriter receives every input applied to a session, in order.
type InputWriter interface {
	WriteInput(InputRow) error
}

// Optional: input writers may support batch mode
type batchInputWriter interface {
	WriteInputs([]InputRow) error
}

// DefaultTickInterval is the session tick used when none is configured.
const DefaultTickInterval = 16 * time.Millisecond

// Runner owns a session and feeds it actions from a Player.
type Runner struct {
	session      *session.Session
	player       Player
	writer       RecordWriter
	inputs       InputWriter
	frames       FrameWriter
	tickInterval time.Duration
	now          func() time.Time
	maxSteps     int

	seq     int
	pending []InputRow
	mu      sync.Mutex
}

// NewRunner wires a session to a player and a record writer. If writer also
// implements InputWriter it receives the input log, and if it implements
// FrameWriter it receives a frame after every tick.
func NewRunner(s *session.Session, p Player, writer RecordWriter, tickInterval time.Duration) *Runner {
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	r := &Runner{
		session:      s,
		player:       p,
		writer:       writer,
		tickInterval: tickInterval,
		now:          time.Now,
		maxSteps:     1_000_000,
	}
	if fw, ok := writer.(FrameWriter); ok {
		r.frames = fw
	}
	if iw, ok := writer.(InputWriter); ok {
		r.inputs = iw
	}
	return r
}

// SetInputWriter overrides the input log destination.
func (r *Runner) SetInputWriter(w InputWriter) {
	r.mu.Lock()
	r.inputs = w
	r.mu.Unlock()
}

// SetClock replaces the wall clock used for record timestamps.
func (r *Runner) SetClock(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

// Session returns the driven session.
func (r *Runner) Session() *session.Session { return r.session }

// TickInterval returns the fixed step.
func (r *Runner) TickInterval() time.Duration { return r.tickInterval }
