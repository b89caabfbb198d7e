package sim

import (
	"encoding/json"
	"os"

	"aimtrain/internal/record"
)

// FileWriter writes run records and input rows to JSONL files.
type FileWriter struct {
	recFile   *os.File
	inputFile *os.File
	recEnc    *json.Encoder
	inputEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. inputPath may be empty to skip the input log.
func NewFileWriter(recordPath, inputPath string) (*FileWriter, error) {
	rf, err := os.Create(recordPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{recFile: rf, recEnc: json.NewEncoder(rf)}
	if inputPath != "" {
		inf, err := os.Create(inputPath)
		if err != nil {
			rf.Close()
			return nil, err
		}
		fw.inputFile = inf
		fw.inputEnc = json.NewEncoder(inf)
	}
	return fw, nil
}

// WriteRecord logs a completed run.
func (f *FileWriter) WriteRecord(r record.Record) error {
	return f.recEnc.Encode(r)
}

// WriteInput logs a single input row, if enabled.
func (f *FileWriter) WriteInput(row InputRow) error {
	if f.inputEnc == nil {
		return nil
	}
	return f.inputEnc.Encode(row)
}

// WriteInputs logs multiple input rows.
func (f *FileWriter) WriteInputs(rows []InputRow) error {
	for _, r := range rows {
		if err := f.WriteInput(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.recFile != nil {
		if e := f.recFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.inputFile != nil {
		if e := f.inputFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
