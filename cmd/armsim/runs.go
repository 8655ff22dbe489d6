package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/armsim/internal/analysis"
	"github.com/san-kum/armsim/internal/export"
	"github.com/san-kum/armsim/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tDURATION\tSAMPLES\tOK\tPRESET")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%t\t%s\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Samples,
			run.Success,
			run.Preset,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Series, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("samples: %d\n\n", series.Len())

	if phase {
		if len(series.Columns) < 2 {
			return fmt.Errorf("phase portrait needs two columns, run has %v", series.Columns)
		}
		xs, _ := series.Column(series.Columns[0])
		ys, _ := series.Column(series.Columns[1])
		portrait := analysis.NewPhasePortrait(series.Columns[0], series.Columns[1], xs, ys)
		fmt.Print(portrait.ASCII(80, 24))
		return writeSVG(portrait.Points)
	}

	for _, name := range series.Columns {
		data, err := series.Column(name)
		if err != nil || len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if len(series.Columns) == 0 {
		return nil
	}
	first, _ := series.Column(series.Columns[0])
	return writeSVG(analysis.NewPhasePortrait("time", series.Columns[0], series.Times, first).Points)
}

func writeSVG(points []analysis.Point) error {
	if svgFile == "" {
		return nil
	}
	doc := export.TrajectoryToSVG(points, 800, 400)
	if doc == "" {
		return fmt.Errorf("not enough points for svg")
	}
	if err := os.WriteFile(svgFile, []byte(doc), 0644); err != nil {
		return err
	}
	slog.Info("wrote plot", "path", svgFile)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if series.Len() < 3 || len(series.Columns) == 0 {
		return fmt.Errorf("no data")
	}

	name := column
	if name == "" {
		name = series.Columns[0]
	}
	data, err := series.Column(name)
	if err != nil {
		return err
	}
	dt := (series.Times[len(series.Times)-1] - series.Times[0]) / float64(len(series.Times)-1)

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s\n\n", name)

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 8 {
		graph := asciigraph.Plot(ps[:len(ps)/2],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+name+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	period, err := analysis.DominantPeriod(data, dt)
	if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.3f hz\n", 1/period)
	fmt.Printf("period: %.4f s\n", period)
	if crossing, err := analysis.CrossingPeriod(data, dt); err == nil {
		fmt.Printf("mean-crossing period: %.4f s\n", crossing)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.ExportCSV(os.Stdout, series)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, series)
}
