package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/kpushkaryov/evader/pkg/sim"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the run configuration",
	Long:  `Manage the persistent run configuration file`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective run configuration",
	RunE:  showRunConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a run configuration file",
	RunE:  initRunConfigFile,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// configPath returns the explicit --config path, or the default
// location under the user's home directory.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".evader", "config.yaml"), nil
}

func showRunConfig(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	source := path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		source = "built-in defaults"
		path = ""
	}

	cfg, err := sim.LoadRunConfigOrDefault(path)
	if err != nil {
		return fmt.Errorf("failed to load run config: %w", err)
	}

	fmt.Printf("Configuration source: %s\n\n", source)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SETTING\tVALUE")
	_, _ = fmt.Fprintln(w, "-------\t-----")
	_, _ = fmt.Fprintf(w, "bounds\t[%g, %g] x [%g, %g]\n", cfg.Bounds.MinX, cfg.Bounds.MaxX, cfg.Bounds.MinY, cfg.Bounds.MaxY)
	_, _ = fmt.Fprintf(w, "arrival_radius\t%g\n", cfg.ArrivalRadius)
	_, _ = fmt.Fprintf(w, "tmax\t%g\n", cfg.TMax)
	_, _ = fmt.Fprintf(w, "time_step\t%g\n", cfg.TimeStep)
	_, _ = fmt.Fprintf(w, "frame_time\t%g\n", cfg.FrameTime)
	_, _ = fmt.Fprintf(w, "report_dir\t%s\n", cfg.ReportDir)
	_, _ = fmt.Fprintf(w, "report_format\t%s\n", cfg.ReportFormat)
	_, _ = fmt.Fprintf(w, "log_level\t%s\n", cfg.LogLevel)
	return w.Flush()
}

func initRunConfigFile(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	// Confirm before overwriting an existing file
	if _, err := os.Stat(path); err == nil {
		var overwrite bool
		confirmPrompt := &survey.Confirm{
			Message: fmt.Sprintf("%s already exists. Overwrite?", path),
			Default: false,
		}
		if err := survey.AskOne(confirmPrompt, &overwrite); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Init cancelled")
			return nil
		}
	}

	cfg := sim.DefaultRunConfig()

	floatValidator := func(ans interface{}) error {
		str, ok := ans.(string)
		if !ok {
			return fmt.Errorf("expected text input")
		}
		if _, err := strconv.ParseFloat(str, 64); err != nil {
			return fmt.Errorf("invalid number: %s", str)
		}
		return nil
	}

	var tmaxStr string
	tmaxPrompt := &survey.Input{
		Message: "Simulation end time (model seconds):",
		Default: strconv.FormatFloat(cfg.TMax, 'g', -1, 64),
	}
	if err := survey.AskOne(tmaxPrompt, &tmaxStr, survey.WithValidator(survey.Required), survey.WithValidator(floatValidator)); err != nil {
		return err
	}
	cfg.TMax, _ = strconv.ParseFloat(tmaxStr, 64)

	var stepStr string
	stepPrompt := &survey.Input{
		Message: "Tick length (model seconds):",
		Default: strconv.FormatFloat(cfg.TimeStep, 'g', -1, 64),
	}
	if err := survey.AskOne(stepPrompt, &stepStr, survey.WithValidator(survey.Required), survey.WithValidator(floatValidator)); err != nil {
		return err
	}
	cfg.TimeStep, _ = strconv.ParseFloat(stepStr, 64)

	reportDirPrompt := &survey.Input{
		Message: "Report directory:",
		Default: cfg.ReportDir,
	}
	if err := survey.AskOne(reportDirPrompt, &cfg.ReportDir, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	formatPrompt := &survey.Select{
		Message: "Report format:",
		Options: []string{"json", "markdown"},
		Default: cfg.ReportFormat,
	}
	if err := survey.AskOne(formatPrompt, &cfg.ReportFormat); err != nil {
		return err
	}

	levelPrompt := &survey.Select{
		Message: "Log level:",
		Options: []string{"debug", "info", "warn", "error"},
		Default: cfg.LogLevel,
	}
	if err := survey.AskOne(levelPrompt, &cfg.LogLevel); err != nil {
		return err
	}

	if err := sim.SaveRunConfig(cfg, path); err != nil {
		return fmt.Errorf("failed to save run config: %w", err)
	}

	fmt.Printf("Configuration written to %s\n", path)
	return nil
}
