package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"aimtrain/internal/record"
	"aimtrain/internal/sim"
	"aimtrain/internal/store"
)

// writerOptions selects the sinks a run is written to.
type writerOptions struct {
	PrintOnly  bool
	JSON       bool
	Quiet      bool
	LogFile    string
	DBBackend  string
	DBDSN      string
	History    *record.History
	ExtraSinks []sim.RecordWriter
}

// writers bundles the composed writer with the resources behind it.
type writers struct {
	*sim.MultiWriter
	Store   *store.Store
	closers []io.Closer
}

// Close releases files and database handles.
func (w *writers) Close() error {
	var errs []error
	for i := len(w.closers) - 1; i >= 0; i-- {
		errs = append(errs, w.closers[i].Close())
	}
	return errors.Join(errs...)
}

// newWriters sets up record and input writers based on flags and env vars.
func newWriters(opts writerOptions) (*writers, error) {
	w := &writers{MultiWriter: sim.NewMultiWriter()}
	if !opts.Quiet {
		w.Add(outputWriter(opts.JSON))
	}

	if !opts.PrintOnly {
		if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
			database := os.Getenv("GREPTIMEDB_DATABASE")
			if database == "" {
				database = "public"
			}
			gw, err := sim.NewGreptimeDBWriter(endpoint, database)
			if err != nil {
				return nil, fmt.Errorf("init GreptimeDB writer: %w", err)
			}
			w.Add(gw)
		}
	}

	var coins record.CoinSink
	if opts.DBBackend != "" {
		st, err := openStore(opts.DBBackend, opts.DBDSN)
		if err != nil {
			w.Close()
			return nil, err
		}
		w.Store = st
		w.closers = append(w.closers, st)
		w.Add(st)
		coins = st
	}
	if opts.History != nil {
		if coins == nil {
			coins = &record.Ledger{}
		}
		w.Add(sim.NewHistoryWriter(opts.History, coins))
	} else if w.Store != nil {
		w.Add(coinWriter{sink: w.Store})
	}

	if opts.LogFile != "" {
		fw, err := sim.NewFileWriter(opts.LogFile, opts.LogFile+".inputs")
		if err != nil {
			w.Close()
			return nil, err
		}
		w.closers = append(w.closers, fw)
		w.Add(fw)
	}

	for _, s := range opts.ExtraSinks {
		w.Add(s)
	}
	return w, nil
}

// outputWriter prints a styled report on a terminal and JSON otherwise.
func outputWriter(forceJSON bool) sim.RecordWriter {
	fd := int(os.Stdout.Fd())
	if forceJSON || !term.IsTerminal(fd) {
		return sim.NewJSONStdoutWriter()
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = 80
	}
	return sim.NewReportWriter(width)
}

// openStore opens and migrates the run database.
func openStore(backend, dsn string) (*store.Store, error) {
	b, err := store.ParseBackend(backend)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(b, dsn)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// coinWriter pays a run's coins into a sink.
type coinWriter struct {
	sink record.CoinSink
}

func (c coinWriter) WriteRecord(r record.Record) error {
	if r.Coins <= 0 {
		return nil
	}
	return c.sink.AwardCoins(r.Coins)
}
