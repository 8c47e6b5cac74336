package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/treesel/internal/app"
	"github.com/dshills/treesel/internal/config"
	"github.com/dshills/treesel/internal/input/keymap"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	watch      bool
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "treesel",
		Short: "Syntax-aware incremental selection",
		Long: `treesel selects syntax nodes in source files. A selection starts at the
smallest node under a position and grows or shrinks one node at a time;
delimiters such as parentheses can be stripped from a selection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", config.DefaultPath(),
		"configuration file (TOML or YAML)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "",
		"log format (text, json)")

	root.AddCommand(
		newSelectCmd(&flags),
		newKeysCmd(&flags),
		newRunCmd(&flags),
		newViewCmd(&flags),
	)
	return root
}

// openApp builds the application and opens file with the cursor at.
func openApp(cmd *cobra.Command, flags *globalFlags, file, at string) (*app.App, *app.Document, error) {
	line, col, err := parseAt(at)
	if err != nil {
		return nil, nil, err
	}

	a, err := app.New(cmd.Context(), app.Options{
		ConfigPath: flags.configPath,
		LogLevel:   flags.logLevel,
		LogFormat:  flags.logFormat,
		LogOutput:  cmd.ErrOrStderr(),
		Watch:      flags.watch,
	})
	if err != nil {
		return nil, nil, err
	}

	doc, err := a.Open(file)
	if err != nil {
		_ = a.Close()
		return nil, nil, err
	}
	doc.Window.SetCursor(line, col)
	return a, doc, nil
}

var errBadPosition = errors.New("position must be LINE:COL")

// parseAt parses a LINE:COL position. Lines start at 1 and columns at 0.
func parseAt(s string) (int, int, error) {
	ls, cs, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", errBadPosition, s)
	}
	line, err := strconv.Atoi(ls)
	if err != nil || line < 1 {
		return 0, 0, fmt.Errorf("%w: bad line %q", errBadPosition, ls)
	}
	col, err := strconv.Atoi(cs)
	if err != nil || col < 0 {
		return 0, 0, fmt.Errorf("%w: bad column %q", errBadPosition, cs)
	}
	return line, col, nil
}

// opActions maps operation names to actions.
var opActions = map[string]string{
	"init":   keymap.ActionInitSelection,
	"expand": keymap.ActionNodeIncremental,
	"shrink": keymap.ActionNodeDecremental,
	"inner":  keymap.ActionVisualInner,

	"initSelection":   keymap.ActionInitSelection,
	"nodeIncremental": keymap.ActionNodeIncremental,
	"nodeDecremental": keymap.ActionNodeDecremental,
	"visualInner":     keymap.ActionVisualInner,
}

// printResult writes one record per result: the action, the selection and
// its text. format is "text" or "json"; JSON records are one per line.
func printResult(w io.Writer, format string, doc *app.Document, res app.Result) error {
	var text string
	if res.HasVisual {
		lines, err := doc.Buffer.Text(res.Selection)
		if err != nil {
			return err
		}
		text = strings.Join(lines, "\n")
	}

	if format == "json" {
		rec, err := resultJSON(res, text)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, rec)
		return err
	}

	name := strings.TrimPrefix(res.Action, "selection.")
	if !res.HasVisual {
		_, err := fmt.Fprintf(w, "%s\t%s\t-\n", name, res.Mode)
		return err
	}
	mark := ""
	if !res.Changed {
		mark = " (unchanged)"
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s%s\t%q\n", name, res.Mode, res.Selection, mark, text)
	return err
}

func resultJSON(res app.Result, text string) (string, error) {
	rec := "{}"
	set := func(path string, value any) error {
		var err error
		if rec, err = sjson.Set(rec, path, value); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		return nil
	}

	err := errors.Join(
		set("action", res.Action),
		set("count", res.Count),
		set("changed", res.Changed),
		set("mode", res.Mode),
	)
	if err == nil && res.HasVisual {
		r := res.Selection
		err = errors.Join(
			set("range", []int{r.StartLine, r.StartCol, r.EndLine, r.EndCol}),
			set("text", text),
		)
	}
	return rec, err
}

var errBadFormat = errors.New("output must be text or json")

func checkFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("%w: %q", errBadFormat, format)
	}
	return nil
}
