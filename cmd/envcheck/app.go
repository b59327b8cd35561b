package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"envcheck/internal/check"
	"envcheck/internal/cmdexec"
	"envcheck/internal/config"
	"envcheck/internal/geocheck"
	"envcheck/internal/gpu"
	"envcheck/internal/gpucheck"
	"envcheck/internal/logging"
	"envcheck/internal/mountcheck"
	"envcheck/internal/pkgcheck"
	"envcheck/internal/pycheck"
	"envcheck/internal/python"
	"envcheck/internal/report"
)

// app holds flag values and the injected process runner.
type app struct {
	stdout io.Writer
	stderr io.Writer
	runner cmdexec.Runner

	configPath string
	logLevel   string
	savePath   string
}

func (a *app) loadConfig() (config.Config, error) {
	if a.configPath != "" {
		return config.LoadFrom(a.configPath)
	}
	return config.Load()
}

func (a *app) newLogger(cfg config.Config) (*logging.Logger, error) {
	name := cfg.Logging.Level
	if a.logLevel != "" {
		name = a.logLevel
	}
	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	if cfg.Logging.File != "" {
		return logging.NewFileLogger(level, cfg.Logging.File)
	}
	return logging.NewWriterLogger(level, a.stderr), nil
}

// setup loads config and the logger shared by the report and tui commands.
func (a *app) setup() (config.Config, *logging.Logger, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	logger, err := a.newLogger(cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

// buildSuite wires the six checks in report order. One probe is shared so
// modules are imported once per run.
func buildSuite(cfg config.Config, runner cmdexec.Runner, logger *logging.Logger) *check.Suite {
	timeout := cfg.ProbeTimeout()
	probe := python.NewProbe(runner, cfg.Python.Interpreter, timeout, logger)

	return check.NewSuite(logger,
		&pycheck.Check{
			Interpreter: probe,
			VenvDir:     cfg.Python.VenvDir,
			Logger:      logger,
		},
		&gpucheck.Check{
			Probe:      probe,
			Driver:     gpu.NewDetector(logger, runner, timeout),
			MatrixSize: cfg.GPU.SmokeMatrixSize,
			Logger:     logger,
		},
		&geocheck.Check{
			Runner:        runner,
			Probe:         probe,
			ConfigTool:    cfg.Geo.ConfigTool,
			BindingModule: cfg.Geo.BindingModule,
			Optional:      cfg.Geo.Optional,
			Timeout:       timeout,
			Logger:        logger,
		},
		&pkgcheck.Packages{
			Probe:       probe,
			Required:    cfg.Packages.Required,
			Constraints: cfg.Packages.Constraints,
			Logger:      logger,
		},
		&pkgcheck.DevTools{
			Probe:  probe,
			Tools:  cfg.DevTools.Tools,
			Logger: logger,
		},
		&mountcheck.Check{
			Paths:  cfg.Mounts.Paths,
			Logger: logger,
		},
	)
}

func (a *app) runReport(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := a.setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	summary := a.printReport(cmd, cfg, logger)

	if a.savePath != "" {
		if err := report.Save(a.savePath, summary, logger); err != nil {
			return err
		}
		fmt.Fprintf(a.stderr, "Report saved to %s\n", a.savePath)
	}

	if code := summary.ExitCode(); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// printReport runs the suite, streaming each section as its check finishes.
func (a *app) printReport(cmd *cobra.Command, cfg config.Config, logger *logging.Logger) check.Summary {
	suite := buildSuite(cfg, a.runner, logger)
	printer := report.NewPrinter(a.stdout)

	printer.Start(timeNow())
	summary := suite.Run(cmd.Context(), printer.Progress)
	printer.Finish(summary)
	return summary
}
