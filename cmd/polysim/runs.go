package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/polysim/internal/catalog"
	"github.com/san-kum/polysim/internal/export"
	"github.com/san-kum/polysim/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	runs, err := cat.Runs(catalog.Filter{Model: filterBy, Observable: observable, Limit: limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found (try `polysim reindex` for runs saved before the catalog existed)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tOBSERVABLE\tVARIANT\tN\tPOINTS\tCREATED\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			run.ID,
			run.Model,
			run.Observable,
			run.Variant,
			run.NumberOfLinks,
			humanize.Comma(int64(run.Points)),
			humanize.Time(run.Timestamp),
			run.Elapsed,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.Values) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", args[0])
	fmt.Printf("model: %s (N=%d)\n", result.Model, result.NumberOfLinks)
	fmt.Printf("samples: %d\n\n", len(result.Values))
	fmt.Println(viz.PlotResult(result, 80, 14))

	if svgPath != "" {
		svg := export.CurveToSVG(result.Arguments, result.Values, 800, 400, string(viz.ThemeLab.Primary))
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nsvg written to %s\n", svgPath)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return export.WriteCSV(os.Stdout, result)
	}
	if err := export.ExportCSV(args[1], result); err != nil {
		return err
	}
	slog.Info("exported", "run", args[0], "path", args[1])
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return export.WriteJSON(os.Stdout, result)
	}
	if err := export.ExportJSON(args[1], result); err != nil {
		return err
	}
	slog.Info("exported", "run", args[0], "path", args[1])
	return nil
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.Delete(args[0]); err != nil {
		return err
	}

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()
	if err := cat.Delete(args[0]); err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return err
	}
	fmt.Printf("deleted: %s\n", args[0])
	return nil
}

// reindexRuns records every run directory in the catalog, replacing
// entries that already exist.
func reindexRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	indexed := 0
	for _, meta := range runs {
		xs, ys, err := st.LoadData(meta.ID)
		if err != nil {
			slog.Warn("skipping run", "run", meta.ID, "err", err)
			continue
		}
		if err := cat.Record(meta, xs, ys); err != nil {
			return fmt.Errorf("run %s: %w", meta.ID, err)
		}
		indexed++
	}
	fmt.Printf("indexed %s of %s runs\n", humanize.Comma(int64(indexed)), humanize.Comma(int64(len(runs))))
	return nil
}
