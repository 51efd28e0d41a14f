package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/pipeline"
	"github.com/danielpatrickdp/persona-forge/internal/prompts"
)

func (c *cli) checkCmd() *cobra.Command {
	var rerun bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the logic, bias and depth check on the persona",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, e *pipeline.Engine, v *view) error {
				v.info(v.t("check.analyzing_desc", nil))
				var (
					r   persona.FullAnalysisReport
					err error
				)
				if rerun {
					r, err = e.RunAnalysis(ctx)
				} else {
					r, err = e.EnsureAnalysis(ctx)
				}
				if err != nil {
					return err
				}
				v.report(r)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&rerun, "rerun", false, "analyze again even if a report exists")

	cmd.AddCommand(
		c.conflictCmd("fix <n>", "Rewrite the persona to remove conflict n", (*pipeline.Engine).AutoFix),
		c.conflictCmd("harmonize <n>", "Turn conflict n into a deliberate contradiction", (*pipeline.Engine).Harmonize),
		c.indexCmd("ignore <n>", "Dismiss conflict n", (*pipeline.Engine).IgnoreConflict),
		c.indexCmd("skip-depth <n>", "Dismiss missing depth element n", (*pipeline.Engine).SkipDepth),
		c.addDepthCmd(),
		c.remixCmd(),
		c.compareCmd(),
		c.standardsCmd(),
	)
	return cmd
}

// #region conflicts
func (c *cli) conflictCmd(use, short string, act func(*pipeline.Engine, context.Context, int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := indexArg(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, e *pipeline.Engine, v *view) error {
				v.info(v.t("common.compiling", nil))
				if err := act(e, ctx, i); err != nil {
					return err
				}
				return c.showReport(e, v)
			})
		},
	}
}

func (c *cli) indexCmd(use, short string, act func(*pipeline.Engine, int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := indexArg(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(_ context.Context, e *pipeline.Engine, v *view) error {
				if err := act(e, i); err != nil {
					return err
				}
				return c.showReport(e, v)
			})
		},
	}
}

func (c *cli) addDepthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-depth <n>",
		Short: "Brainstorm an answer for missing depth element n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := indexArg(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, e *pipeline.Engine, v *view) error {
				text, err := e.AddDepth(ctx, i)
				if err != nil {
					return err
				}
				v.success(text)
				return nil
			})
		},
	}
}

func (c *cli) showReport(e *pipeline.Engine, v *view) error {
	r := e.Stack().Current().AnalysisReport
	if r == nil {
		return pipeline.ErrNoReport
	}
	v.report(*r)
	return nil
}
// #endregion conflicts

// #region remix
func (c *cli) remixCmd() *cobra.Command {
	var fields string
	var yes bool
	cmd := &cobra.Command{
		Use:   "remix",
		Short: "Propose a psychological overlay and merge the parts you accept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelection(fields)
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, e *pipeline.Engine, v *view) error {
				proposal, err := e.Remix(ctx)
				if err != nil {
					return err
				}
				v.remix(proposal)
				if !yes && !confirm(cmd, v, v.t("check.remix_modal.title", nil)+"?") {
					return nil
				}
				if err := e.AcceptRemix(proposal, sel); err != nil {
					return err
				}
				v.markdown(e.Stack().Current().CurrentDraft)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fields, "fields", "inner_voice,core_wound,secret_desire,worldview", "overlay fields to accept")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept without asking")
	return cmd
}

func parseSelection(fields string) (persona.RemixSelection, error) {
	var sel persona.RemixSelection
	for _, f := range strings.Split(fields, ",") {
		switch strings.TrimSpace(f) {
		case "inner_voice":
			sel.InnerVoice = true
		case "core_wound":
			sel.CoreWound = true
		case "secret_desire":
			sel.SecretDesire = true
		case "worldview":
			sel.Worldview = true
		case "":
		default:
			return persona.RemixSelection{}, fmt.Errorf("unknown remix field %q", f)
		}
	}
	return sel, nil
}
// #endregion remix

// #region standards
func (c *cli) compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <standard-id>",
		Short: "Compare the draft with a reference standard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, e *pipeline.Engine, v *view) error {
				out, err := e.CompareWithStandard(ctx, args[0])
				if err != nil {
					return err
				}
				v.titled("check.comparison_title")
				v.markdown(out)
				return nil
			})
		},
	}
}

func (c *cli) standardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standards",
		Short: "List the reference standards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := c.app.view(cmd)
			v.titled("check.standards_title")
			for _, s := range prompts.Standards() {
				v.println(fmt.Sprintf("%s  %s %s", v.title.Render(s.ID), v.text.Render(s.Title), v.dim.Render("("+string(s.Type)+")")))
				v.info("    " + s.Description)
			}
			return nil
		},
	}
}
// #endregion standards
