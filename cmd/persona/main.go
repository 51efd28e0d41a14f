// Command persona builds AI persona prompts through the vibe, crystallize,
// director, check, simulation and final steps, keeping an undo/redo history
// of every change in a local SQLite file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/persona-forge/internal/pipeline"
)

var version = "dev"

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

// #region main
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	c := &cli{}
	err := c.root().ExecuteContext(ctx)
	stop()
	if cerr := c.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
// #endregion main

// #region root
// cli owns the app for the command being run.
type cli struct {
	opts globalOpts
	app  *app
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "persona",
		Short:         "Forge AI persona prompts from a vibe",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(c.opts)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.showStatus(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.opts.configPath, "config", "", "config file (default ~/.persona-forge/config.yaml)")
	f.StringVar(&c.opts.dbPath, "db", "", "session database path")
	f.StringVar(&c.opts.lang, "lang", "", "UI language (en, zh-TW, zh-CN, ja, ko, de, es, fr, pt)")
	f.StringVar(&c.opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		c.statusCmd(),
		c.historyCmd(),
		c.undoCmd(),
		c.redoCmd(),
		c.resetCmd(),
		c.vibeCmd(),
		c.crystallizeCmd(),
		c.regenCmd(),
		c.modifyCmd(),
		c.proceedCmd(),
		c.directorCmd(),
		c.checkCmd(),
		c.simulateCmd(),
		c.quotesCmd(),
		c.finalizeCmd(),
		c.exportCmd(),
		c.architectCmd(),
		c.toolCmd(),
		c.antiBiasCmd(),
		c.inspirationCmd(),
		c.themeCmd(),
		c.langCmd(),
	)
	return root
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	return c.app.Close()
}
// #endregion root

// #region helpers
// run executes fn with the pipeline engine and a bounded context.
func (c *cli) run(cmd *cobra.Command, fn func(ctx context.Context, e *pipeline.Engine, v *view) error) error {
	e := c.app.pipeline()
	ctx, cancel := c.app.llmContext(cmd.Context())
	defer cancel()
	return c.app.explain(fn(ctx, e, c.app.view(cmd)))
}

func (a *app) view(cmd *cobra.Command) *view {
	return newView(cmd.OutOrStdout(), a.tr)
}

// explain turns known engine errors into translated messages.
func (a *app) explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pipeline.ErrBusy):
		return errors.New(a.tr.T("common.busy", nil))
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s (%w)", a.tr.T("common.error.request_failed", nil), err)
	}
	return err
}

// indexArg parses a 1-based list position.
func indexArg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q: use the number shown in the list", s)
	}
	return n - 1, nil
}
// #endregion helpers
