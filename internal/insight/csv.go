package insight

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

var semanticHeader = []string{"id", "timestamp", "event", "details"}

// AppendCSV appends findings to the semantic log file, writing the header row
// when the file is empty.
func AppendCSV(path string, findings []Finding) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening semantic log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat semantic log: %w", err)
	}
	if info.Size() == 0 {
		if err := cw.Write(semanticHeader); err != nil {
			return fmt.Errorf("writing semantic header: %w", err)
		}
	}

	for _, fd := range findings {
		record := []string{fd.ID, fd.Timestamp.Format(time.RFC3339), fd.Kind, fd.Details}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing semantic row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
