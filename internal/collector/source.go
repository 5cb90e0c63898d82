package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"LadderSentinel/internal/model"
)

// BarSource supplies the bars indicators are derived from.
type BarSource interface {
	Bars() ([]model.OHLCV, error)
	Name() string
}

// CSVSource reads bars from a local CSV export with columns
// time,open,high,low,close[,volume]. A header row is skipped when present.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource { return &CSVSource{Path: path} }

func (s *CSVSource) Name() string { return "csv:" + s.Path }

func (s *CSVSource) Bars() ([]model.OHLCV, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open bars: %w", err)
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV decodes bars from r. Time accepts RFC3339, "2006-01-02 15:04:05",
// "2006-01-02" or unix seconds.
func ParseCSV(r io.Reader) ([]model.OHLCV, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var bars []model.OHLCV
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("csv line %d: expected at least 5 columns, got %d", line, len(rec))
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		bar, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, errors.New("no bars in csv")
	}
	return bars, nil
}

func isHeader(rec []string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
	return err != nil
}

func parseRecord(rec []string) (model.OHLCV, error) {
	ts, err := parseTime(strings.TrimSpace(rec[0]))
	if err != nil {
		return model.OHLCV{}, err
	}
	vals := make([]float64, 5)
	for i := 1; i < len(rec) && i <= 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		vals[i-1] = v
	}
	return model.OHLCV{Time: ts, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vals[4]}, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
