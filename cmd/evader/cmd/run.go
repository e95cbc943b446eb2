package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kpushkaryov/evader/pkg/logger"
	"github.com/kpushkaryov/evader/pkg/report"
	"github.com/kpushkaryov/evader/pkg/scenario"
	"github.com/kpushkaryov/evader/pkg/sim"

	// Import scenarios to register them
	_ "github.com/kpushkaryov/evader/scenarios"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an engagement scenario",
	Long:  `Run an engagement scenario interactively or with specified parameters`,
	RunE:  runScenario,
}

func init() {
	runCmd.Flags().StringP("scenario", "s", "", "scenario name to run")
	runCmd.Flags().StringP("params", "p", "", "parameters file (YAML)")
	runCmd.Flags().String("report-dir", "", "directory for run reports (overrides config)")
}

func runScenario(cmd *cobra.Command, _ []string) error {
	runCfg, err := sim.LoadRunConfigOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load run config: %w", err)
	}
	if dir, _ := cmd.Flags().GetString("report-dir"); dir != "" {
		runCfg.ReportDir = dir
	}
	// The flag wins over the config file for the log level.
	if runCfg.LogLevel != "" && !cmd.Root().PersistentFlags().Changed("log-level") {
		logger.SetLevel(logger.ParseLevel(runCfg.LogLevel))
	}

	name, err := selectScenario(cmd)
	if err != nil {
		return fmt.Errorf("failed to select scenario: %w", err)
	}

	scn, err := scenario.DefaultRegistry.Get(name)
	if err != nil {
		return fmt.Errorf("failed to get scenario: %w", err)
	}

	params, err := resolveParameters(cmd, scn)
	if err != nil {
		return fmt.Errorf("failed to get parameters: %w", err)
	}

	if err := scn.Configure(params); err != nil {
		return fmt.Errorf("failed to configure scenario: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Warn("\nReceived interrupt signal, stopping scenario...")
		scn.Stop()
		cancel()
	}()

	runID := fmt.Sprintf("%s-%s", name, time.Now().Format("20060102-150405"))
	rec := report.NewRecorder(runID)

	logger.LogSection(fmt.Sprintf("Starting %s", scn.Name()))
	if err := scn.Run(ctx, rec); err != nil {
		return fmt.Errorf("scenario failed: %w", err)
	}

	rec.PrintSummary()

	writer := report.NewWriter(rec, report.WriterConfig{
		OutputDir:      runCfg.ReportDir,
		Format:         runCfg.ReportFormat,
		DetailLevel:    "full",
		ScenarioConfig: params,
	})
	runReport, err := writer.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	if err := writer.Save(runReport); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	logger.Success("Scenario completed")
	return nil
}

func selectScenario(cmd *cobra.Command) (string, error) {
	// Check if scenario is specified via flag
	name, _ := cmd.Flags().GetString("scenario")
	if name != "" {
		return name, nil
	}

	names := scenario.DefaultRegistry.List()
	if len(names) == 0 {
		return "", fmt.Errorf("no scenarios registered")
	}

	descriptions := make(map[string]string, len(names))
	for _, n := range names {
		scn, err := scenario.DefaultRegistry.Get(n)
		if err != nil {
			return "", err
		}
		descriptions[n] = scn.Description()
	}

	// Interactive selection
	var selected string
	prompt := &survey.Select{
		Message: "Select scenario:",
		Options: names,
		Description: func(value string, index int) string {
			return descriptions[value]
		},
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	return selected, nil
}

// resolveParameters loads the parameter file when given, otherwise
// prompts for each parameter the scenario declares.
func resolveParameters(cmd *cobra.Command, scn scenario.Scenario) (map[string]interface{}, error) {
	path, _ := cmd.Flags().GetString("params")
	if path == "" {
		return scenario.PromptForParameters(scn.Parameters())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters file: %w", err)
	}
	params := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to parse parameters file: %w", err)
	}
	return params, nil
}
