package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/armsim/internal/continuous"
)

type Kind string

const (
	KindValidate Kind = "validate"
	KindScene    Kind = "scene"
)

var ErrUnknownColumn = errors.New("unknown column")

// Store keeps one directory per run under baseDir, each holding
// metadata.json and states.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Kind      Kind               `json:"kind"`
	Timestamp time.Time          `json:"timestamp"`
	Preset    string             `json:"preset,omitempty"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Samples   int                `json:"samples"`
	Success   bool               `json:"success"`
	Message   string             `json:"message,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
	Params    map[string]float64 `json:"params,omitempty"`
}

// Series is a column-named time series. Rows[i] holds the values of
// Columns at Times[i].
type Series struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
}

func (s *Series) Append(t float64, row ...float64) {
	s.Times = append(s.Times, t)
	s.Rows = append(s.Rows, row)
}

func (s *Series) Len() int { return len(s.Times) }

func (s *Series) Column(name string) ([]float64, error) {
	if name == "time" {
		return append([]float64(nil), s.Times...), nil
	}
	idx := -1
	for i, c := range s.Columns {
		if c == name {
			idx = i
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, name)
	}
	out := make([]float64, 0, len(s.Rows))
	for _, row := range s.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out, nil
}

// FromResult lays out a validator run as theta/omega columns.
func FromResult(res *continuous.Result) *Series {
	series := &Series{Columns: []string{"theta", "omega"}}
	for _, smp := range res.Samples {
		series.Append(smp.T, smp.Theta, smp.Omega)
	}
	return series
}

// Save writes a new run directory and returns its ID. Kind and Timestamp
// default when unset; runs saved within the same second get a suffix.
func (s *Store) Save(meta RunMetadata, series *Series) (string, error) {
	if meta.Kind == "" {
		return "", errors.New("run kind is required")
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	base := fmt.Sprintf("%s_%d", meta.Kind, meta.Timestamp.Unix())
	runID := base
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, runID)); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	if series != nil {
		meta.Samples = series.Len()
	}
	if meta.Metrics == nil {
		meta.Metrics = map[string]float64{}
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if series == nil {
		return runID, nil
	}
	if err := ExportCSV(csvFile, series); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// LoadColumn reads one named column of a stored run.
func (s *Store) LoadColumn(runID, name string) ([]float64, error) {
	series, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}
	return series.Column(name)
}

// ReadCSV parses the states.csv layout: a header starting with "time", then
// one row per sample. Unparseable rows are skipped.
func ReadCSV(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	series := &Series{}
	if len(records) == 0 {
		return series, nil
	}
	if len(records[0]) > 0 {
		series.Columns = append(series.Columns, records[0][1:]...)
	}

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		series.Append(t, row...)
	}
	return series, nil
}
