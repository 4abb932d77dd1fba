// Package export renders the readings table as comma-separated text, the
// same sheet the dashboard offers for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/nati/waterdash/internal/history"
	"github.com/nati/waterdash/internal/sensor"
)

// Header matches the dashboard's exported sheet, including the space after
// each comma. encoding/csv would quote space-led fields, so it goes out as
// a raw line.
const Header = "Timestamp, pH, Temperature, Turbidity, TDS, Dissolved Oxygen, Conductivity, Status"

const timeLayout = "2006-01-02 15:04:05"

// Write renders rows to w, one line per table timestamp, using each
// sensor's display precision for its column. Rows whose width does not
// match the sensor set are skipped.
func Write(w io.Writer, readings []sensor.Reading, rows []history.Row) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return fmt.Errorf("cannot write header: %w", err)
	}

	cw := csv.NewWriter(w)
	for _, row := range rows {
		if len(row.Values) != len(readings) {
			continue
		}
		record := make([]string, 0, len(readings)+2)
		record = append(record, row.Time.Format(timeLayout))
		for j, v := range row.Values {
			record = append(record, strconv.FormatFloat(v, 'f', readings[j].Precision, 64))
		}
		record = append(record, row.Tier.String())
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile renders rows to a new file at path.
func WriteFile(path string, readings []sensor.Reading, rows []history.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create export file: %w", err)
	}
	if err := Write(f, readings, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DefaultFilename returns a timestamped name for a saved export.
func DefaultFilename(now time.Time) string {
	return "water-quality-" + now.Format("2006-01-02-150405") + ".csv"
}
