package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"envcheck/internal/cmdexec"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr, &cmdexec.RealRunner{}))
}

// exitError carries a non-zero exit status out of a cobra RunE.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// execute runs the CLI and returns the process exit code: 0 when every
// critical check passed, 1 for failed checks and for usage or config errors.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, runner cmdexec.Runner) int {
	app := &app{
		stdout: stdout,
		stderr: stderr,
		runner: runner,
	}
	root := app.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "envcheck",
		Short: "Verify the devcontainer environment",
		Long: "envcheck inspects the Python interpreter, GPU/CUDA, GDAL, core packages, " +
			"developer tools and data mounts, and exits non-zero when a critical check fails.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runReport,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: layered /etc/envcheck/config.yaml and ./.envcheck.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "event log level on stderr: debug, info, warn, error")
	root.Flags().StringVar(&a.savePath, "save", "", "also write the report as JSON to this path")

	root.AddCommand(a.tuiCmd(), a.configCmd(), a.versionCmd())
	return root
}
