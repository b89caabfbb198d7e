package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aimtrain/internal/arena"
	"aimtrain/internal/logging"
	"aimtrain/internal/record"
)

// ErrStalled is returned by RunFast when a run does not finish.
var ErrStalled = errors.New("run did not complete")

// Run ticks the session on a wall-clock ticker until it completes or ctx is
// done. Cancelling ctx aborts the run.
func (r *Runner) Run(ctx context.Context) (record.Record, error) {
	log := logging.FromContext(ctx)
	if err := r.start(ctx); err != nil {
		return record.Record{}, err
	}
	log.Info("starting run", "mode", r.session.Settings().Mode, "tick_interval", r.tickInterval)
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	dt := r.tickInterval.Seconds()
	for {
		select {
		case <-ticker.C:
			if r.step(ctx, dt) {
				return r.finish(ctx)
			}
		case <-ctx.Done():
			r.abort(ctx)
			log.Info("run aborted", "elapsed", r.session.Elapsed())
			return record.Record{}, ctx.Err()
		}
	}
}

// RunFast steps the session without sleeping. It is deterministic for a given
// seed and player.
func (r *Runner) RunFast(ctx context.Context) (record.Record, error) {
	if err := r.start(ctx); err != nil {
		return record.Record{}, err
	}
	dt := r.tickInterval.Seconds()
	for i := 0; i < r.maxSteps; i++ {
		if err := ctx.Err(); err != nil {
			r.abort(ctx)
			return record.Record{}, err
		}
		if r.step(ctx, dt) {
			return r.finish(ctx)
		}
	}
	r.abort(ctx)
	return record.Record{}, ErrStalled
}

func (r *Runner) start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.session.Start(); err != nil {
		return err
	}
	st := r.session.Settings()
	r.emit(InputRow{Kind: InputStart, Seed: r.session.Seed(), Settings: &st})
	r.flush(ctx)
	return nil
}

// step applies one tick and an optional click. It reports whether the run completed.
func (r *Runner) step(ctx context.Context, dt float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.flush(ctx)

	act := r.player.Act(r.session, dt)
	defer r.frame(ctx, act.Cursor)
	res := r.session.Tick(dt, act.Cursor, act.Inside)
	r.emit(InputRow{Kind: InputTick, DT: dt, X: act.Cursor.X, Y: act.Cursor.Y, Inside: act.Inside})
	if res.Completed {
		return true
	}
	if act.Click == nil {
		return false
	}
	cr := r.session.Click(*act.Click)
	r.emit(InputRow{Kind: InputClick, X: act.Click.X, Y: act.Click.Y})
	return cr.Completed
}

func (r *Runner) frame(ctx context.Context, cursor arena.Point) {
	if r.frames == nil {
		return
	}
	if err := r.frames.WriteFrame(snapshotFrame(r.session, cursor)); err != nil {
		logging.FromContext(ctx).Warn("frame write failed", "err", err)
	}
}

func (r *Runner) abort(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session.Abort()
	r.emit(InputRow{Kind: InputAbort})
	r.flush(ctx)
}

func (r *Runner) finish(ctx context.Context) (record.Record, error) {
	log := logging.FromContext(ctx)
	r.mu.Lock()
	rec, err := r.session.Finish(r.now())
	r.mu.Unlock()
	if err != nil {
		return record.Record{}, err
	}
	log.Info("run completed",
		"id", rec.ID,
		"mode", rec.Mode,
		"final_score", rec.Breakdown.FinalScore,
		"rank", rec.Rank,
		"elapsed", rec.ElapsedSeconds,
	)
	if r.writer != nil {
		if err := r.writer.WriteRecord(rec); err != nil {
			return rec, fmt.Errorf("write record: %w", err)
		}
	}
	return rec, nil
}

func (r *Runner) emit(row InputRow) {
	if r.inputs == nil {
		return
	}
	r.seq++
	row.Seq = r.seq
	r.pending = append(r.pending, row)
}

// flush writes buffered input rows, using batch mode if supported.
func (r *Runner) flush(ctx context.Context) {
	if r.inputs == nil || len(r.pending) == 0 {
		return
	}
	log := logging.FromContext(ctx)
	batch := r.pending
	r.pending = nil
	if bw, ok := r.inputs.(batchInputWriter); ok {
		if err := bw.WriteInputs(batch); err != nil {
			log.Error("input batch write failed", "err", err)
		}
		return
	}
	for _, row := range batch {
		if err := r.inputs.WriteInput(row); err != nil {
			log.Error("input write failed", "seq", row.Seq, "err", err)
		}
	}
}
