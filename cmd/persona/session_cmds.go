package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/persona-forge/internal/config"
	"github.com/danielpatrickdp/persona-forge/internal/i18n"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
)

// #region status
func (a *app) showStatus(cmd *cobra.Command) error {
	v := a.view(cmd)
	cur := a.stack.Current()
	v.status(cur, a.stack.Index(), a.stack.Len())
	if cur.StructuredPersona != nil && cur.Step == persona.StepCrystallize {
		v.println("")
		v.persona(*cur.StructuredPersona)
	}
	if cur.CurrentDraft != "" {
		v.println("")
		v.markdown(cur.CurrentDraft)
	}
	return nil
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current step and draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.showStatus(cmd)
		},
	}
}

func (c *cli) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the snapshots of this session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := c.app.view(cmd)
			snaps, idx := c.app.stack.Snapshots()
			for i, s := range snaps {
				line := fmt.Sprintf("%3d  %-16s %d msgs", i+1, s.Step, len(s.VibeMessages))
				if s.StructuredPersona != nil {
					line += " · persona"
				}
				if s.AnalysisReport != nil {
					line += fmt.Sprintf(" · %d conflicts", len(s.AnalysisReport.LogicalConflicts))
				}
				if i == idx {
					v.println(v.title.Render(line + "  ←"))
					continue
				}
				v.println(v.dim.Render(line))
			}
			return nil
		},
	}
}
// #endregion status

// #region undo-redo
func (c *cli) undoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Step back one snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := c.app.view(cmd)
			if !c.app.stack.Undo() {
				v.info(v.t("common.nothing_to_undo", nil))
				return nil
			}
			v.success(v.t("common.undo_done", map[string]any{"step": c.app.stack.Current().Step}))
			return nil
		},
	}
}

func (c *cli) redoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Step forward one snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := c.app.view(cmd)
			if !c.app.stack.Redo() {
				v.info(v.t("common.nothing_to_redo", nil))
				return nil
			}
			v.success(v.t("common.redo_done", map[string]any{"step": c.app.stack.Current().Step}))
			return nil
		},
	}
}

func (c *cli) resetCmd() *cobra.Command {
	var keep, yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Start over with an empty session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := c.app.view(cmd)
			if !yes && !confirm(cmd, v, v.t("common.confirm_restart", nil)) {
				return nil
			}
			if err := c.app.persist.Reset(!keep); err != nil {
				return err
			}
			v.success(v.t("common.start_over", nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "keep the saved session on disk")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func confirm(cmd *cobra.Command, v *view, question string) bool {
	fmt.Fprint(v.w, v.warn.Render(question)+" [y/N] ")
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
// #endregion undo-redo

// #region export
func (c *cli) exportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the final persona as markdown, text or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = "md"
				if ext := filepath.Ext(out); ext != "" {
					format = ext
				}
			}
			f, err := persona.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := persona.Export(c.app.stack.Current(), f)
			if err != nil {
				return err
			}
			if out == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			v := c.app.view(cmd)
			v.success(v.t("final.export_written", map[string]any{"path": out}))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "md, txt or json (default from --out extension, else md)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
// #endregion export

// #region preferences
func (c *cli) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [name]",
		Short:     "Cycle the color theme, or set it by name",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: themeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := c.app.tr
			if len(args) == 1 {
				t, ok := i18n.ParseTheme(args[0])
				if !ok {
					return fmt.Errorf("unknown theme %q (one of %s)", args[0], strings.Join(themeNames(), ", "))
				}
				if err := tr.SetTheme(t); err != nil {
					return err
				}
			} else if _, err := tr.CycleTheme(); err != nil {
				return err
			}
			// A theme pinned in the config file would override the stored one
			// on the next run.
			if c.app.cfg.UI.Theme != "" {
				if err := config.UpdateFile(c.app.cfgPath, func(cfg *config.Config) { cfg.UI.Theme = string(tr.Theme()) }); err != nil {
					return err
				}
			}
			v := c.app.view(cmd)
			v.success(v.t("theme.changed", map[string]any{"theme": string(tr.Theme()) + " (" + tr.ThemeIcon() + ")"}))
			return nil
		},
	}
}

func themeNames() []string {
	out := make([]string, len(i18n.Themes))
	for i, t := range i18n.Themes {
		out[i] = string(t)
	}
	return out
}

func (c *cli) langCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lang [code]",
		Short: "Cycle the UI language, or set it by code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := c.app.tr
			if len(args) == 1 {
				l, ok := i18n.ParseLanguage(args[0])
				if !ok {
					return fmt.Errorf("unsupported language %q", args[0])
				}
				if err := tr.SetLanguage(l); err != nil {
					return err
				}
			} else {
				tr.CycleLanguage()
			}
			if err := config.UpdateFile(c.app.cfgPath, func(cfg *config.Config) { cfg.UI.Language = string(tr.Language()) }); err != nil {
				return err
			}
			v := c.app.view(cmd)
			v.success(v.t("lang.changed", map[string]any{"lang": tr.Language()}))
			return nil
		},
	}
}
// #endregion preferences
