package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads samples from a CSV file with columns time,price,volume.
// An optional header row starting with "time" is skipped. Rows must be
// time-ordered; ordering is the caller's contract, not verified here.
func LoadCSV(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var samples []Sample
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		s, err := parseRow(row)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
}

func parseRow(row []string) (Sample, error) {
	if len(row) < 2 {
		return Sample{}, fmt.Errorf("bad row (need time,price[,volume]): %v", row)
	}

	ts := strings.TrimSpace(row[0])
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return Sample{}, fmt.Errorf("bad time %q: %w", row[0], err)
		}
		t = t2
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return Sample{}, fmt.Errorf("bad price %q: %w", row[1], err)
	}

	volume := 0.0
	if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
		volume, err = strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return Sample{}, fmt.Errorf("bad volume %q: %w", row[2], err)
		}
	}

	return Sample{Time: t, Price: price, Volume: volume}, nil
}
