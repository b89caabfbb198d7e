package sim

import (
	"fmt"

	"aimtrain/internal/record"
)

// HistoryWriter keeps records in an in-memory history and pays out coins.
type HistoryWriter struct {
	history *record.History
	coins   record.CoinSink
}

// NewHistoryWriter returns a writer for h. coins may be nil.
func NewHistoryWriter(h *record.History, coins record.CoinSink) *HistoryWriter {
	return &HistoryWriter{history: h, coins: coins}
}

// History returns the backing history.
func (w *HistoryWriter) History() *record.History { return w.history }

// WriteRecord stores r and awards its coins.
func (w *HistoryWriter) WriteRecord(r record.Record) error {
	w.history.Add(r)
	if w.coins == nil || r.Coins <= 0 {
		return nil
	}
	if err := w.coins.AwardCoins(r.Coins); err != nil {
		return fmt.Errorf("award coins: %w", err)
	}
	return nil
}
