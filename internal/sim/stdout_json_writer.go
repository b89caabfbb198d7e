package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"aimtrain/internal/record"
)

// JSONStdoutWriter prints run records as JSON to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// WriteRecord outputs a record in JSON format.
func (w *JSONStdoutWriter) WriteRecord(r record.Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}
