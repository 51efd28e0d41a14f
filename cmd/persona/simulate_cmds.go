package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/pipeline"
)

func (c *cli) simulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Talk to the draft as if it were deployed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			e := a.pipeline()
			v := a.view(cmd)
			if e.Stack().Current().Step != persona.StepSimulation {
				if err := e.ProceedToSimulation(); err != nil {
					return a.explain(err)
				}
			}
			v.titled("sim.title")
			for _, t := range e.Stack().Current().SimulationHistory {
				v.message(persona.ChatMessage{Role: t.Role, Text: t.Text})
			}

			return a.repl(cmd.Context(), cmd.InOrStdin(), v,
				chatSender(v, "vibe.sources", e.SendSimulation),
				map[string]replAction{
					"/quotes": {help: "sample lines in the persona's voice", run: func(ctx context.Context) (bool, error) {
						return false, printQuotes(ctx, e, v)
					}},
					"/turns": {help: "count the exchanges so far", run: func(context.Context) (bool, error) {
						v.info(fmt.Sprintf("%s %d", v.t("sim.turns_label", nil), len(e.Stack().Current().SimulationHistory)/2))
						return false, nil
					}},
					"/final": {help: "finish and show the persona crystal", run: func(context.Context) (bool, error) {
						if err := e.Finalize(); err != nil {
							return false, err
						}
						showFinal(e, v)
						return true, nil
					}},
				},
			)
		},
	}
}

func printQuotes(ctx context.Context, e *pipeline.Engine, v *view) error {
	out, err := e.GenerateQuotes(ctx)
	if err != nil {
		return err
	}
	v.titled("sim.quotes")
	v.markdown(out)
	return nil
}

func (c *cli) quotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quotes",
		Short: "Generate sample lines in the persona's voice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, e *pipeline.Engine, v *view) error {
				return printQuotes(ctx, e, v)
			})
		},
	}
}

func (c *cli) finalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize",
		Short: "Mark the persona final",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(_ context.Context, e *pipeline.Engine, v *view) error {
				if err := e.Finalize(); err != nil {
					return err
				}
				showFinal(e, v)
				return nil
			})
		},
	}
}

func showFinal(e *pipeline.Engine, v *view) {
	v.titled("final.title")
	v.info(v.t("final.subtitle", nil))
	v.markdown(e.Stack().Current().CurrentDraft)
	v.info(v.t("final.export_options", nil) + ": persona export -f md|txt|json")
}
