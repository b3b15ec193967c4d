package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/cicheck/cicheck/packages/checker"
	"github.com/cicheck/cicheck/packages/core/runner"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Ruleset: "+result.Ruleset))

	for _, tr := range result.Targets {
		fmt.Fprintf(f.writer, "\n  %s", bold(tr.File))
		if tr.Missing {
			fmt.Fprintf(f.writer, " %s", red("(file does not exist)"))
		}
		fmt.Fprintf(f.writer, "\n")

		for _, res := range tr.Results {
			symbol := green("✓")
			if !res.Passed {
				symbol = red("✗")
			}

			fmt.Fprintf(f.writer, "    %s %s", symbol, res.Name)
			if f.verbose && res.AC != "" {
				fmt.Fprintf(f.writer, " %s", cyan("["+res.AC+"]"))
			}
			fmt.Fprintf(f.writer, "\n")

			if !res.Passed {
				switch res.Outcome {
				case checker.OutcomeMissingFile:
					fmt.Fprintf(f.writer, "      %s %s\n", yellow("→"), res.Message)
				default:
					fmt.Fprintf(f.writer, "      %s %s\n", red("→"), res.Message)
					if f.verbose && res.Expected != nil {
						fmt.Fprintf(f.writer, "        Expected: %v\n", res.Expected)
						if res.Actual != nil {
							fmt.Fprintf(f.writer, "        Actual:   %v\n", res.Actual)
						}
					}
				}
			}
		}

		if tr.Skipped > 0 {
			fmt.Fprintf(f.writer, "    %s %d filtered out\n", yellow("-"), tr.Skipped)
		}
	}

	fmt.Fprintf(f.writer, "\nChecks: ")
	if result.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", result.Passed)))
	}
	if result.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", result.Failed)))
	}
	if result.Errored > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d errored", result.Errored)))
	}
	if result.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", result.Skipped)))
	}
	total := result.Passed + result.Failed + result.Errored + result.Skipped
	fmt.Fprintf(f.writer, "%d total\n", total)
	fmt.Fprintf(f.writer, "Time:  %dms\n", result.Duration.Milliseconds())
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("cicheck"), version)
}
