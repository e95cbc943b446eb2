package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kpushkaryov/evader/pkg/report"
	"github.com/kpushkaryov/evader/pkg/sim"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List saved run reports",
	Long:  `List run reports found in the report directory`,
	RunE:  listReports,
}

func init() {
	reportsCmd.Flags().String("report-dir", "", "directory to scan (overrides config)")
}

// savedReport is one report found on disk
type savedReport struct {
	path   string
	report report.RunReport
}

func listReports(cmd *cobra.Command, args []string) error {
	runCfg, err := sim.LoadRunConfigOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load run config: %w", err)
	}
	dir, _ := cmd.Flags().GetString("report-dir")
	if dir == "" {
		dir = runCfg.ReportDir
	}

	reports, err := discoverReports(dir)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Printf("No reports found in %s\n", dir)
		return nil
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].report.Metadata.GeneratedAt.Before(reports[j].report.Metadata.GeneratedAt)
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RUN ID\tOUTCOME\tSIM TIME\tFIRED\tFILE")
	_, _ = fmt.Fprintln(w, "------\t-------\t--------\t-----\t----")

	for _, r := range reports {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.2fs\t%d\t%s\n",
			r.report.Metadata.RunID,
			r.report.Summary.Outcome,
			r.report.Summary.SimDuration,
			r.report.Summary.MissilesFired,
			r.path)
	}

	return w.Flush()
}

// discoverReports finds all JSON run reports under dir
func discoverReports(dir string) ([]savedReport, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var reports []savedReport

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !strings.HasSuffix(info.Name(), ".json") {
			return nil
		}

		saved, err := loadReport(path)
		if err != nil {
			// Log error but continue scanning
			fmt.Printf("Warning: failed to load %s: %v\n", path, err)
			return nil
		}
		reports = append(reports, *saved)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan report directory: %w", err)
	}

	return reports, nil
}

// loadReport loads a run report from a file
func loadReport(path string) (*savedReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var r report.RunReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &savedReport{path: path, report: r}, nil
}
