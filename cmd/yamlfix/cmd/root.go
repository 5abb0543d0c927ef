package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quwac/yamlfix/version"
)

const appName = "yamlfix"

var (
	check      bool
	showDiff   bool
	configPath string
	exclude    []string
	jobs       int
	verbose    bool
	charset    string
)

func init() {
	rootCmd.Flags().BoolVar(&check, "check", false, "check if the files need to be fixed without writing them")
	rootCmd.Flags().BoolVar(&showDiff, "diff", false, "print the changes of the files that need to be fixed (implies --check)")
	rootCmd.Flags().StringVarP(&configPath, "config-file", "c", "", "specify the configuration file path (default: .yamlfix.yaml, .yamlfix.yml or pyproject.toml found from the current directory)")
	rootCmd.Flags().StringArrayVar(&exclude, "exclude", nil, "skip files and directories matching the glob pattern (repeatable)")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "specify the number of files fixed in parallel (the default value is the number of logical CPUs usable by the current process)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
	rootCmd.Flags().StringVar(&charset, "encoding", "", "specify the character encoding of the files (default: UTF-8, or UTF-16 with a byte order mark)")
	rootCmd.SetVersionTemplate(versionText())
}

var rootCmd = &cobra.Command{
	Use:   fmt.Sprintf("%s [flags] [path...]", appName),
	Short: fmt.Sprintf("%s formats YAML files into a canonical style.", appName),
	Long: `Fixes YAML files in place.

Directories are searched for files with the .yaml or .yml extension.
Use - to read from the standard input and write the result to the standard output.`,
	Version:       version.String(),
	Args:          cobra.MinimumNArgs(1),
	RunE:          run,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func versionText() string {
	return fmt.Sprintf(
		"%s version: %s\ngo version: %s\nplatform: %s/%s\n",
		appName, version.String(), runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}

func newLogger(w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zap.DebugLevel,
	))
}
