package sim

import (
	"errors"

	"aimtrain/internal/record"
)

// MultiWriter fans records and inputs out to multiple writers.
type MultiWriter struct {
	writers []RecordWriter
	inputs  []InputWriter
	frames  []FrameWriter
}

// NewMultiWriter creates a new MultiWriter. Record writers that also
// implement InputWriter receive the input log.
func NewMultiWriter(ws ...RecordWriter) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		mw.Add(w)
	}
	return mw
}

// Add appends a writer. Nil writers are ignored.
func (mw *MultiWriter) Add(w RecordWriter) {
	if w == nil {
		return
	}
	mw.writers = append(mw.writers, w)
	if iw, ok := w.(InputWriter); ok {
		mw.inputs = append(mw.inputs, iw)
	}
	if fw, ok := w.(FrameWriter); ok {
		mw.frames = append(mw.frames, fw)
	}
}

// Len returns the number of record writers.
func (mw *MultiWriter) Len() int { return len(mw.writers) }

// WriteRecord sends a record to every writer. All writers are tried; the
// errors are joined.
func (mw *MultiWriter) WriteRecord(r record.Record) error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.WriteRecord(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteInput sends an input row to all input writers.
func (mw *MultiWriter) WriteInput(row InputRow) error {
	for _, w := range mw.inputs {
		if err := w.WriteInput(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteInputs sends multiple rows to all input writers, using batch if supported.
func (mw *MultiWriter) WriteInputs(rows []InputRow) error {
	for _, w := range mw.inputs {
		if bw, ok := w.(batchInputWriter); ok {
			if err := bw.WriteInputs(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteInput(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteFrame forwards a live frame to writers that implement FrameWriter.
func (mw *MultiWriter) WriteFrame(f Frame) error {
	var errs []error
	for _, w := range mw.frames {
		if err := w.WriteFrame(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
