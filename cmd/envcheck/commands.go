package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"envcheck/internal/config"
	"envcheck/internal/report"
	"envcheck/internal/tui"
)

// timeNow is the report header clock.
var timeNow = time.Now

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive view of the checks (r to re-run, q to quit)",
		Args:  cobra.NoArgs,
		RunE:  a.runTUI,
	}
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := a.setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	out, ok := a.stdout.(*os.File)
	if !ok || !term.IsTerminal(int(out.Fd())) {
		logger.Info("tui.fallback", "stdout is not a terminal, printing the plain report", nil)
		if code := a.printReport(cmd, cfg, logger).ExitCode(); code != 0 {
			return &exitError{code: code}
		}
		return nil
	}

	newSuite := func() tui.SuiteRunner { return buildSuite(cfg, a.runner, logger) }
	model := tui.NewModel(cmd.Context(), newSuite, report.NewStyles(out), logger)
	final, err := tea.NewProgram(model, tea.WithOutput(out), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}

	if m, ok := final.(tui.Model); ok {
		if summary, done := m.Summary(); done && summary.ExitCode() != 0 {
			return &exitError{code: summary.ExitCode()}
		}
	}
	return nil
}

func (a *app) configCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "test [path]",
		Short: "Validate configuration and print its summary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runConfigTest,
	})
	return configCmd
}

func (a *app) runConfigTest(_ *cobra.Command, args []string) error {
	var cfg config.Config
	var configErr error

	switch {
	case len(args) == 1:
		fmt.Fprintf(a.stdout, "Testing configuration file: %s\n", args[0])
		cfg, configErr = config.LoadFrom(args[0])
	case a.configPath != "":
		fmt.Fprintf(a.stdout, "Testing configuration file: %s\n", a.configPath)
		cfg, configErr = config.LoadFrom(a.configPath)
	default:
		fmt.Fprintln(a.stdout, "Testing configuration (system + project merge):")
		fmt.Fprintf(a.stdout, "  System config:  %s\n", config.SystemConfigPath())
		fmt.Fprintf(a.stdout, "  Project config: %s\n", config.ProjectConfigPath())
		fmt.Fprintln(a.stdout)
		cfg, configErr = config.Load()
	}

	if configErr != nil {
		fmt.Fprintf(a.stderr, "❌ Configuration validation FAILED:\n")
		fmt.Fprintf(a.stderr, "   %v\n", configErr)
		return &exitError{code: 1}
	}

	interpreter := cfg.Python.Interpreter
	if interpreter == "" {
		interpreter = "python, python3 (PATH)"
	}

	fmt.Fprintln(a.stdout, "✅ Configuration is VALID")
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Configuration Summary:")
	fmt.Fprintf(a.stdout, "  Interpreter:        %s\n", interpreter)
	fmt.Fprintf(a.stdout, "  Venv Dir:           %s\n", cfg.Python.VenvDir)
	fmt.Fprintf(a.stdout, "  Smoke Matrix:       %dx%d\n", cfg.GPU.SmokeMatrixSize, cfg.GPU.SmokeMatrixSize)
	fmt.Fprintf(a.stdout, "  GDAL Tool:          %s\n", cfg.Geo.ConfigTool)
	fmt.Fprintf(a.stdout, "  Required Packages:  %s\n", strings.Join(cfg.Packages.Required, ", "))
	fmt.Fprintf(a.stdout, "  Dev Tools:          %s\n", strings.Join(cfg.DevTools.Tools, ", "))
	fmt.Fprintf(a.stdout, "  Mounts:             %s\n", strings.Join(cfg.Mounts.Paths, ", "))
	fmt.Fprintf(a.stdout, "  Probe Timeout:      %s\n", cfg.ProbeTimeout())
	fmt.Fprintf(a.stdout, "  Log Level:          %s\n", cfg.Logging.Level)
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.stdout, "envcheck version %s\n", Version)
		},
	}
}
