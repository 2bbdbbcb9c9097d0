package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Environment CSV columns. The row index is the time-step proxy; sensor
// exports carry no explicit timestamp column we can rely on.
const (
	colTemperature = "temperature"
	colHumidity    = "humidity"
	colPH          = "ph"
	colEC          = "ec"
)

// EnvRow is a single environmental sample.
type EnvRow struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	EC          float64 `json:"ec"`
}

// EnvSeries is one group's environmental time-series.
type EnvSeries struct {
	GroupID string   `json:"group"`
	Path    string   `json:"path"`
	Rows    []EnvRow `json:"rows"`
}

// EnvSummary holds per-group means of the four environment metrics.
type EnvSummary struct {
	GroupID     string  `json:"group"`
	Name        string  `json:"name"`
	ECTarget    float64 `json:"ec_target"`
	Samples     int     `json:"samples"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	EC          float64 `json:"ec"`
}

// LoadEnvironment parses an environment CSV for the given group. Non-UTF-8
// encodings (legacy sensor exports, typically euc-kr) are transcoded when
// declared. A missing required column or an unparsable value is a
// per-dataset failure surfaced to the caller.
func LoadEnvironment(groupID, path, encoding string) (*EnvSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var reader io.Reader = f
	if encoding != "" && !isUTF8(encoding) {
		e, err := htmlindex.Get(encoding)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", encoding, err)
		}
		reader = transform.NewReader(f, e.NewDecoder())
	}

	r := csv.NewReader(reader)
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, 4)
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{colTemperature, colHumidity, colPH, colEC} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("column %q not found in header %v", col, header)
		}
	}

	series := &EnvSeries{GroupID: groupID, Path: path}
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		var row EnvRow
		fields := []struct {
			col string
			dst *float64
		}{
			{colTemperature, &row.Temperature},
			{colHumidity, &row.Humidity},
			{colPH, &row.PH},
			{colEC, &row.EC},
		}
		for _, fd := range fields {
			i := idx[fd.col]
			if i >= len(record) {
				return nil, fmt.Errorf("line %d: missing %s value", line, fd.col)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad %s value %q", line, fd.col, record[i])
			}
			*fd.dst = v
		}
		series.Rows = append(series.Rows, row)
	}

	if len(series.Rows) == 0 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}
	return series, nil
}

// Summary computes the per-group means. Group metadata is filled in by the
// caller, which owns the group configuration.
func (s *EnvSeries) Summary(g Group) EnvSummary {
	sum := EnvSummary{
		GroupID:  s.GroupID,
		Name:     g.Name,
		ECTarget: g.ECTarget,
		Samples:  len(s.Rows),
	}
	for _, row := range s.Rows {
		sum.Temperature += row.Temperature
		sum.Humidity += row.Humidity
		sum.PH += row.PH
		sum.EC += row.EC
	}
	n := float64(len(s.Rows))
	sum.Temperature /= n
	sum.Humidity /= n
	sum.PH /= n
	sum.EC /= n
	return sum
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
