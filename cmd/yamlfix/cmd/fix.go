package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quwac/yamlfix"
	"github.com/quwac/yamlfix/color"
	"github.com/quwac/yamlfix/errors"
	"github.com/quwac/yamlfix/internal/fileio"
	"github.com/quwac/yamlfix/schema"
)

var (
	// ErrCheckFailed is the error returned when files need to be fixed in check mode.
	ErrCheckFailed = errors.New("some files need to be fixed")
	// ErrFixFailed is the error returned when files could not be fixed.
	ErrFixFailed = errors.New("some files could not be fixed")
)

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger(cmd.ErrOrStderr())
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	cfg.Exclude = append(cfg.Exclude, exclude...)
	c, err := yamlfix.New(yamlfix.WithConfig(cfg), yamlfix.WithLogger(logger))
	if err != nil {
		return err
	}

	colors := color.New()
	if len(args) == 1 && args[0] == fileio.Stdin {
		return fixStdin(cmd, c, colors)
	}

	paths, err := fileio.Collect(args, c.Config().Exclude)
	if err != nil {
		return err
	}
	logger.Debug("collected files", zap.Int("count", len(paths)))

	summary := yamlfix.NewSummary(check || showDiff, colors)
	var (
		files   []*fileio.File
		sources []yamlfix.Source
	)
	for _, path := range paths {
		if path == fileio.Stdin {
			return errors.New("- cannot be combined with other paths")
		}
		f, err := fileio.Read(path, charset)
		if err != nil {
			printError(cmd.ErrOrStderr(), err, colors)
			summary.Add(&yamlfix.Result{Name: path, Err: err})
			continue
		}
		files = append(files, f)
		sources = append(sources, yamlfix.Source{Name: path, Text: f.Text})
	}

	results, _ := c.FixSources(ctx, sources, jobs)
	out := cmd.OutOrStdout()
	for i, r := range results {
		switch {
		case r.Err != nil:
			printError(cmd.ErrOrStderr(), r.Err, colors)
		case !r.Changed:
		case check || showDiff:
			fmt.Fprintf(out, "would fix %s\n", r.Name)
			if showDiff {
				fmt.Fprint(out, colors.Diff(r.Name, sources[i].Text, r.Text))
			}
		default:
			if err := files[i].Write(ctx, logger, r.Text); err != nil {
				printError(cmd.ErrOrStderr(), err, colors)
				r = &yamlfix.Result{Name: r.Name, Err: err}
				break
			}
			fmt.Fprintf(out, "fixed %s\n", r.Name)
		}
		summary.Add(r)
	}
	fmt.Fprint(cmd.ErrOrStderr(), summary.String())

	switch {
	case len(summary.Failed()) > 0:
		return ErrFixFailed
	case (check || showDiff) && len(summary.Fixed()) > 0:
		return ErrCheckFailed
	}
	return nil
}

// fixStdin fixes the standard input and writes the result to the
// standard output.
func fixStdin(cmd *cobra.Command, c *yamlfix.Corrector, colors *color.Config) error {
	f, err := fileio.ReadFrom(cmd.InOrStdin(), "<stdin>", charset)
	if err != nil {
		return err
	}
	r, err := c.Correct(yamlfix.Source{Name: f.Path, Text: f.Text})
	if err != nil {
		printError(cmd.ErrOrStderr(), err, colors)
		return ErrFixFailed
	}
	if check || showDiff {
		if showDiff && r.Changed {
			fmt.Fprint(cmd.OutOrStdout(), colors.Diff(f.Path, f.Text, r.Text))
		}
		if r.Changed {
			return ErrCheckFailed
		}
		return nil
	}
	out := cmd.OutOrStdout()
	if colors.IsEnabled() && isTerminal(out) {
		_, err = io.WriteString(out, colors.Highlight(r.Text))
		return err
	}
	b, err := f.Encode(r.Text)
	if err != nil {
		return err
	}
	_, err = out.Write(b)
	return err
}

// isTerminal reports whether w writes to a terminal.
var isTerminal = terminal

func terminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func loadConfig() (*schema.Config, error) {
	path := configPath
	if path == "" {
		found, err := schema.FindConfig(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			return &schema.Config{}, nil
		}
		path = found
	}
	return schema.LoadConfig(path)
}

func printError(w io.Writer, err error, colors *color.Config) {
	fmt.Fprintln(w, colors.Red().Sprint(err.Error()))
	var perr *errors.ParseError
	if errors.As(err, &perr) {
		if frame := perr.Frame(colors.IsEnabled()); frame != "" {
			fmt.Fprintln(w, frame)
		}
	}
}
