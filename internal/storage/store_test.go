package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/armsim/internal/continuous"
)

func testSeries() *Series {
	s := &Series{Columns: []string{"theta", "omega"}}
	s.Append(0, 30, 400)
	s.Append(0.025, 39.5, 360.25)
	return s
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Kind:     KindValidate,
		Preset:   "default",
		Duration: 5,
		Success:  true,
		Metrics:  map[string]float64{"energy_drift": 0.5},
		Params:   map[string]float64{"friction": 1e-3},
	}
	runID, err := st.Save(meta, testSeries())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "validate_") {
		t.Errorf("unexpected run id %q", runID)
	}

	got, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Kind != KindValidate || got.Preset != "default" || !got.Success {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if got.Samples != 2 {
		t.Errorf("expected 2 samples recorded, got %d", got.Samples)
	}
	if got.Metrics["energy_drift"] != 0.5 {
		t.Errorf("expected energy_drift 0.5, got %f", got.Metrics["energy_drift"])
	}
	if got.Params["friction"] != 1e-3 {
		t.Errorf("params not stored: %v", got.Params)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if series.Len() != 2 || len(series.Columns) != 2 {
		t.Fatalf("expected 2x2 series, got %d rows and columns %v", series.Len(), series.Columns)
	}
	if series.Rows[1][1] != 360.25 || series.Times[1] != 0.025 {
		t.Errorf("row mismatch: t=%g %v", series.Times[1], series.Rows[1])
	}

	omega, err := st.LoadColumn(runID, "omega")
	if err != nil || len(omega) != 2 || omega[0] != 400 {
		t.Errorf("LoadColumn omega = %v, %v", omega, err)
	}
	if _, err := st.LoadColumn(runID, "phi"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	now := time.Now()
	first, err := st.Save(RunMetadata{Kind: KindScene, Timestamp: now}, testSeries())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(RunMetadata{Kind: KindScene, Timestamp: now.Add(time.Millisecond)}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatalf("runs in the same second must not collide: %s", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first {
		t.Errorf("expected oldest first, got %s", runs[0].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if _, err := st.Save(RunMetadata{}, nil); err == nil {
		t.Error("expected error without a kind")
	}

	runID, err := st.Save(RunMetadata{Kind: KindScene}, testSeries())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "states.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, _ := os.ReadFile(filepath.Join(runDir, "states.csv"))
	if !strings.HasPrefix(string(data), "time,theta,omega\n") {
		t.Errorf("unexpected csv header in %q", data)
	}
}

func TestFromResult(t *testing.T) {
	res := &continuous.Result{Samples: []continuous.Sample{{T: 0, Theta: 30, Omega: 400}, {T: 1, Theta: -60, Omega: 2}}}
	series := FromResult(res)
	theta, err := series.Column("theta")
	if err != nil || len(theta) != 2 || theta[1] != -60 {
		t.Errorf("theta column = %v, %v", theta, err)
	}
	times, _ := series.Column("time")
	if times[1] != 1 {
		t.Errorf("time column = %v", times)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{ID: "validate_1", Kind: KindValidate}
	if err := ExportJSON(&buf, meta, testSeries()); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Run.ID != "validate_1" || len(got.Rows) != 2 || got.Columns[0] != "theta" {
		t.Errorf("unexpected export %+v", got)
	}

	buf.Reset()
	if err := ExportJSON(&buf, meta, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"rows": []`) {
		t.Errorf("empty series should export empty arrays: %s", buf.String())
	}
}

func TestReadCSV_SkipsBadRows(t *testing.T) {
	in := "time,theta\n0,1\noops,2\n1,3\n"
	series, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if series.Len() != 2 || series.Rows[1][0] != 3 {
		t.Errorf("unexpected series %+v", series)
	}
}
