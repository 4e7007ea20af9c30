package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/polysim/internal/experiment"
)

// WriteCSV writes one row per argument, headed by the argument and
// observable names.
func WriteCSV(w io.Writer, result *experiment.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{string(result.Argument), result.Observable}); err != nil {
		return err
	}
	for i, x := range result.Arguments {
		row := []string{
			strconv.FormatFloat(x, 'g', -1, 64),
			strconv.FormatFloat(result.Values[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ExportCSV(path string, result *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, result); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadCSV reads the two columns written by WriteCSV.
func ReadCSV(r io.Reader) (args, values []float64, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	args = make([]float64, 0, len(records)-1)
	values = make([]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		x, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		y, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		args = append(args, x)
		values = append(values, y)
	}
	return args, values, nil
}
