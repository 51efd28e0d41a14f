package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/pipeline"
)

// #region vibe
func (c *cli) vibeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vibe",
		Short: "Chat with the muse about your character's vibe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			e := a.pipeline()
			a.startRefresh(cmd.Context())

			v := a.view(cmd)
			v.titled("vibe.title")
			log, err := e.StartVibe()
			if err != nil {
				return err
			}
			for _, m := range log {
				v.message(m)
			}

			return a.repl(cmd.Context(), cmd.InOrStdin(), v,
				chatSender(v, "vibe.sources", e.SendVibe),
				map[string]replAction{
					"/crystallize": {help: "structure the chat into a persona", run: func(ctx context.Context) (bool, error) {
						v.info(v.t("vibe.compiling_desc", nil))
						p, err := e.Crystallize(ctx, "")
						if err != nil {
							return false, err
						}
						v.persona(p)
						return true, nil
					}},
					"/inspire": {help: "show a question to get you going", run: func(context.Context) (bool, error) {
						cats := a.lib.Categories()
						if len(cats) == 0 {
							return false, nil
						}
						cat := cats[rand.IntN(len(cats))]
						if len(cat.Questions) == 0 {
							return false, nil
						}
						q := cat.Questions[rand.IntN(len(cat.Questions))]
						v.println(v.title.Render(cat.Title) + "  " + v.text.Render(q.Text))
						if q.Example != "" {
							v.info(v.t("inspiration.example_label", nil) + " " + q.Example)
						}
						return false, nil
					}},
				},
			)
		},
	}
}

func (c *cli) crystallizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crystallize [last words...]",
		Short: "Structure the vibe chat into a persona sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, e *pipeline.Engine, v *view) error {
				v.info(v.t("vibe.compiling_desc", nil))
				p, err := e.Crystallize(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				v.persona(p)
				return nil
			})
		},
	}
}

func (c *cli) regenCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "regen <section>",
		Short:     "Regenerate one section of the persona sheet",
		Args:      cobra.ExactArgs(1),
		ValidArgs: persona.Sections,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, e *pipeline.Engine, v *view) error {
				text, err := e.RegenerateSection(ctx, args[0])
				if err != nil {
					return err
				}
				v.println(v.heading.Render(v.t("crys.card_"+args[0], nil)))
				v.println(v.text.Render(text))
				return nil
			})
		},
	}
}

func (c *cli) modifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modify",
		Short: "Go back to the vibe chat to change the persona",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(_ context.Context, e *pipeline.Engine, v *view) error {
				if err := e.ModifyVibe(); err != nil {
					return err
				}
				v.info(v.t("vibe.modify_msg", nil))
				v.info("persona vibe")
				return nil
			})
		},
	}
}

func (c *cli) proceedCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "proceed <director|check>",
		Short:     "Compile the persona sheet and move on",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"director", "check"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(_ context.Context, e *pipeline.Engine, v *view) error {
				var err error
				switch args[0] {
				case "director":
					err = e.ProceedToDirector()
				case "check":
					err = e.ProceedToCheck()
				default:
					return fmt.Errorf("unknown target %q: use director or check", args[0])
				}
				if err != nil {
					return err
				}
				v.status(e.Stack().Current(), e.Stack().Index(), e.Stack().Len())
				return nil
			})
		},
	}
}
// #endregion vibe

// #region director
func (c *cli) directorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "director",
		Short: "Refine the draft through the director's interview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			e := a.pipeline()
			v := a.view(cmd)
			v.info(v.t("director.subtitle", nil))

			ctx, cancel := a.llmContext(cmd.Context())
			sp := v.streamer()
			first, err := e.StartDirector(ctx, sp.onDelta)
			cancel()
			if err != nil {
				return a.explain(err)
			}
			sp.done(first, "director.sources")

			return a.repl(cmd.Context(), cmd.InOrStdin(), v,
				chatSender(v, "director.sources", e.SendDirector),
				map[string]replAction{
					"/skip": {help: "let the director decide", run: func(ctx context.Context) (bool, error) {
						return false, chatSender(v, "director.sources", dropText(e.SkipDirectorQuestion))(ctx, "")
					}},
					"/finish": {help: "compile the final draft", run: func(ctx context.Context) (bool, error) {
						v.info(v.t("common.compiling", nil))
						draft, err := e.FinishDirector(ctx)
						if err != nil {
							return false, err
						}
						v.markdown(draft)
						return true, nil
					}},
				},
			)
		},
	}
}
// #endregion director
