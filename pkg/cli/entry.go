// Package cli implements the optbridge command: load a compilation-unit
// fixture, run the bridge pass and print (and optionally persist) the
// diagnostics.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/mavelang/optbridge/internal/analyzer"
	"github.com/mavelang/optbridge/internal/config"
	"github.com/mavelang/optbridge/internal/diagnostics"
	"github.com/mavelang/optbridge/internal/report"
	"github.com/mavelang/optbridge/internal/unit"
)

const usage = `usage: optbridge check <unit.yaml> [options]

options:
  --config <path>   configuration file (default: optbridge.yaml if present)
  --report <path>   write diagnostics to a SQLite report database
  --color <mode>    auto, always or never (default: auto)
`

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Run executes the command line and returns the process exit code:
// 0 clean, 1 fatal diagnostics reported, 2 usage or IO failure.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	switch args[0] {
	case "check":
		return runCheck(args[1:], stdout, stderr)
	case "help", "--help", "-h":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command '%s'\n%s", args[0], usage)
		return 2
	}
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	var unitPath, configPath, reportPath, colorMode string
	i := 0
	for i < len(args) {
		switch arg := args[i]; arg {
		case "--config", "--report", "--color":
			if i+1 >= len(args) {
				fmt.Fprintf(stderr, "missing value for %s\n", arg)
				return 2
			}
			val := args[i+1]
			switch arg {
			case "--config":
				configPath = val
			case "--report":
				reportPath = val
			case "--color":
				colorMode = val
			}
			i += 2
		default:
			if unitPath != "" {
				fmt.Fprintf(stderr, "unexpected argument '%s'\n%s", arg, usage)
				return 2
			}
			unitPath = arg
			i++
		}
	}
	if unitPath == "" {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "optbridge: %v\n", err)
		return 2
	}
	if reportPath != "" {
		cfg.Report = reportPath
	}
	if colorMode != "" {
		cfg.Color = colorMode
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "optbridge: %v\n", err)
			return 2
		}
	}

	u, table, err := unit.Load(unitPath)
	if err != nil {
		fmt.Fprintf(stderr, "optbridge: %v\n", err)
		return 2
	}

	diags := analyzer.New(table, cfg).Analyze(u)
	printDiagnostics(stdout, diags, useColor(cfg))

	if cfg.Report != "" {
		if err := writeReport(cfg.Report, u.File, diags); err != nil {
			fmt.Fprintf(stderr, "optbridge: %v\n", err)
			return 2
		}
	}

	fatal := 0
	for _, d := range diags {
		if d.IsFatal() {
			fatal++
		}
	}
	if fatal > 0 {
		fmt.Fprintf(stdout, "%d error(s)\n", fatal)
		return 1
	}
	fmt.Fprintln(stdout, "ok")
	return 0
}

// loadConfig resolves the configuration: an explicit path must exist, the
// default optbridge.yaml is optional.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(config.ConfigFileName); err == nil {
		return config.Load(config.ConfigFileName)
	}
	return config.Default(), nil
}

func useColor(cfg *config.Config) bool {
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

func printDiagnostics(out io.Writer, diags []*diagnostics.DiagnosticError, color bool) {
	for _, d := range diags {
		line := d.Error()
		if color {
			switch d.Severity {
			case diagnostics.SeverityError:
				line = colorRed + line + colorReset
			case diagnostics.SeverityNote:
				line = colorYellow + line + colorReset
			case diagnostics.SeverityHint:
				line = colorCyan + line + colorReset
			}
		}
		fmt.Fprintln(out, line)
	}
}

func writeReport(path, unitFile string, diags []*diagnostics.DiagnosticError) error {
	sink, err := report.Open(path)
	if err != nil {
		return err
	}
	defer sink.Close()
	_, err = sink.WriteRun(unitFile, diags)
	return err
}
