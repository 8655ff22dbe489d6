package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

type ExportData struct {
	Run     RunMetadata `json:"run"`
	Columns []string    `json:"columns"`
	Times   []float64   `json:"times"`
	Rows    [][]float64 `json:"rows"`
}

func ExportJSON(w io.Writer, meta RunMetadata, series *Series) error {
	data := ExportData{Run: meta, Columns: []string{}, Times: []float64{}, Rows: [][]float64{}}
	if series != nil {
		data.Columns = series.Columns
		data.Times = series.Times
		data.Rows = series.Rows
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportCSV(w io.Writer, series *Series) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, series.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, t := range series.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, val := range series.Rows[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 10, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
