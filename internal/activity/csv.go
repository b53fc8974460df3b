package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// timeLayout is the timestamp format written to the log. RFC 3339 sorts
// lexically and parses unambiguously.
const timeLayout = time.RFC3339

var header = []string{"timestamp", "event", "details"}

// ReadLog reads every event from a behavior log file. Rows that fail to
// parse are skipped with a warning rather than aborting the whole read: the
// log is append-only and a torn final row must not poison history.
func ReadLog(path string, logger *slog.Logger) ([]Event, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening behavior log: %w", err)
	}
	defer f.Close()
	return readEvents(f, logger)
}

func readEvents(r io.Reader, logger *slog.Logger) ([]Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var events []Event
	line := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			logger.Warn("skipping malformed log row", slog.Int("line", line), slog.String("error", err.Error()))
			continue
		}
		if line == 1 && len(record) > 0 && record[0] == header[0] {
			continue // header row
		}
		if len(record) < 3 {
			logger.Warn("skipping short log row", slog.Int("line", line))
			continue
		}
		ts, err := parseTimestamp(record[0])
		if err != nil {
			logger.Warn("skipping row with bad timestamp", slog.Int("line", line), slog.String("value", record[0]))
			continue
		}
		events = append(events, Event{
			Timestamp: ts,
			Kind:      Kind(record[1]),
			Details:   record[2],
		})
	}
	return events, nil
}

// parseTimestamp accepts RFC 3339 and the space-separated layout used by
// earlier log writers.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(timeLayout, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

// Writer appends events to a behavior log file, writing the header row when
// the file is empty. Each Append flushes so a crash loses at most one row.
type Writer struct {
	f  *os.File
	cw *csv.Writer
}

// NewWriter opens (creating if needed) the log file for appending.
func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening behavior log: %w", err)
	}

	w := &Writer{f: f, cw: csv.NewWriter(f)}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat behavior log: %w", err)
	}
	if info.Size() == 0 {
		if err := w.cw.Write(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing log header: %w", err)
		}
		w.cw.Flush()
		if err := w.cw.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return w, nil
}

// Append writes one event and flushes.
func (w *Writer) Append(e Event) error {
	record := []string{e.Timestamp.Format(timeLayout), string(e.Kind), e.Details}
	if err := w.cw.Write(record); err != nil {
		return fmt.Errorf("writing log row: %w", err)
	}
	w.cw.Flush()
	return w.cw.Error()
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
