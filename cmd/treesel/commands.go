package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/treesel/internal/app"
	"github.com/dshills/treesel/internal/ui"
)

func newSelectCmd(flags *globalFlags) *cobra.Command {
	var (
		at     string
		ops    []string
		count  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "select FILE",
		Short: "Run selection operations and print each selection",
		Example: `  treesel select main.go --at 4:17 --ops init,expand,expand,inner
  treesel select main.go --at 4:17 --ops init --count 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			actions := make([]string, 0, len(ops))
			for _, op := range ops {
				action, ok := opActions[strings.TrimSpace(op)]
				if !ok {
					return app.NewOperationError("select", op, app.ErrUnknownAction)
				}
				actions = append(actions, action)
			}

			a, doc, err := openApp(cmd, flags, args[0], at)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, action := range actions {
				res, err := a.Dispatch(cmd.Context(), doc.ID(), action, count)
				if err != nil {
					return err
				}
				if err := printResult(cmd.OutOrStdout(), output, doc, res); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "1:0", "cursor position LINE:COL")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	cmd.Flags().StringSliceVar(&ops, "ops", []string{"init"}, "operations: init, expand, shrink, inner")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "repeat count for each operation")
	return cmd
}

func newKeysCmd(flags *globalFlags) *cobra.Command {
	var at, output string

	cmd := &cobra.Command{
		Use:   "keys FILE KEYS...",
		Short: "Type keys into a file and print each action they run",
		Example: `  treesel keys main.go --at 4:17 gnn grn grn vi
  treesel keys main.go --at 4:17 3gnn "<Esc>"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			a, doc, err := openApp(cmd, flags, args[0], at)
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.Feed(cmd.Context(), doc.ID(), strings.Join(args[1:], ""))
			for _, res := range results {
				if perr := printResult(cmd.OutOrStdout(), output, doc, res); perr != nil {
					return perr
				}
			}
			if err != nil {
				return err
			}
			if pending := doc.PendingKeys(); pending != "" && output == "text" {
				fmt.Fprintf(cmd.OutOrStdout(), "pending\t%s\n", pending)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "1:0", "cursor position LINE:COL")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	return cmd
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	var at, script string

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a Lua script against a file",
		Long: `run executes a Lua script with the "selection" and "editor" modules
installed. The script's print output goes to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, doc, err := openApp(cmd, flags, args[0], at)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.RunScript(cmd.Context(), doc.ID(), script, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&at, "at", "1:0", "cursor position LINE:COL")
	cmd.Flags().StringVarP(&script, "script", "s", "", "Lua script to run")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

func newViewCmd(flags *globalFlags) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Open a file in the terminal viewer",
		Long: `view shows a file with the selection highlighted. The configured selection
keys work in it along with h, j, k, l, 0, $, v, V and <Esc>. q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, doc, err := openApp(cmd, flags, args[0], at)
			if err != nil {
				return err
			}
			defer a.Close()

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("creating screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing screen: %w", err)
			}
			defer screen.Fini()

			// Stop polling when a signal cancels the command.
			go func() {
				<-cmd.Context().Done()
				_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
			}()

			err = ui.NewViewer(a, doc, screen).Run(cmd.Context())
			if err == cmd.Context().Err() {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&at, "at", "1:0", "cursor position LINE:COL")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "reload the configuration file when it changes")
	return cmd
}
