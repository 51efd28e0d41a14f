package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/pipeline"
	"github.com/danielpatrickdp/persona-forge/internal/prompts"
)

// #region architect
func readSpec(path string) (prompts.ArchitectSpec, error) {
	var spec prompts.ArchitectSpec
	if path == "" {
		return spec, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return spec, fmt.Errorf("read spec: %w", err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("parse spec %s: %w", path, err)
	}
	return spec, nil
}

func (c *cli) architectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "architect <spec.yaml>",
		Short: "Compile a form-style persona spec and start director mode with it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := readSpec(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, e *pipeline.Engine, v *view) error {
				v.titled("architect.title")
				v.info(v.t("common.compiling", nil))
				out, err := e.CompileArchitect(ctx, spec)
				if err != nil {
					return err
				}
				v.markdown(out)
				v.info("persona director")
				return nil
			})
		},
	}
	cmd.AddCommand(c.suggestCmd())
	return cmd
}

func (c *cli) suggestCmd() *cobra.Command {
	var specPath, intent string
	cmd := &cobra.Command{
		Use:   "suggest <field>",
		Short: "Suggest content for one spec field using web search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := readSpec(specPath)
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, e *pipeline.Engine, v *view) error {
				out, err := e.SuggestField(ctx, args[0], spec, intent)
				if err != nil {
					return err
				}
				v.println(v.text.Render(out))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&specPath, "spec", "", "spec file giving what is known so far")
	cmd.Flags().StringVar(&intent, "intent", "", "extra direction for the suggestion")
	return cmd
}
// #endregion architect

// #region tool
func (c *cli) toolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tool",
		Short: "Define a functional AI tool through a guided interview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			e := a.pipeline()
			v := a.view(cmd)
			v.titled("tool.title")
			if err := openChat(cmd, a, v, e.StartTool); err != nil {
				return err
			}
			return a.repl(cmd.Context(), cmd.InOrStdin(), v,
				chatSender(v, "vibe.sources", e.SendTool),
				map[string]replAction{
					"/suggest": {help: "suggest the next input", run: func(ctx context.Context) (bool, error) {
						s, err := e.SuggestToolInput(ctx)
						if err != nil {
							return false, err
						}
						v.info(s)
						return false, nil
					}},
					"/finish": {help: "output the final tool directive", run: func(ctx context.Context) (bool, error) {
						err := chatSender(v, "vibe.sources", dropText(e.FinishTool))(ctx, "")
						return err == nil, err
					}},
				},
			)
		},
	}
}
// #endregion tool

// #region antibias
func (c *cli) antiBiasCmd() *cobra.Command {
	var file string
	var draft bool
	cmd := &cobra.Command{
		Use:   "antibias [text...]",
		Short: "Look for hidden bias in a passage or in the current draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			e := a.pipeline()
			subject := strings.Join(args, " ")
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read passage: %w", err)
				}
				subject = string(data)
			}

			v := a.view(cmd)
			v.titled("antibias.title")
			v.info(v.t("antibias.intro_msg", nil))
			start := func(ctx context.Context, onDelta pipeline.DeltaFunc) (persona.ChatMessage, error) {
				if draft {
					return e.AuditDraft(ctx, onDelta)
				}
				return e.StartAntiBias(ctx, subject, onDelta)
			}
			if err := openChat(cmd, a, v, start); err != nil {
				return err
			}
			return a.repl(cmd.Context(), cmd.InOrStdin(), v,
				chatSender(v, "vibe.sources", e.SendAntiBias),
				map[string]replAction{
					"/unsure": {help: "let the auditor infer the intent", run: func(ctx context.Context) (bool, error) {
						return false, chatSender(v, "vibe.sources", dropText(e.AntiBiasUnsure))(ctx, "")
					}},
					"/finish": {help: "get the de-biasing summary", run: func(ctx context.Context) (bool, error) {
						err := chatSender(v, "vibe.sources", dropText(e.FinishAntiBias))(ctx, "")
						return err == nil, err
					}},
				},
			)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "read the passage from a file")
	cmd.Flags().BoolVar(&draft, "draft", false, "audit the current draft")
	return cmd
}
// #endregion antibias

// openChat streams the opening reply of a side-mode chat.
func openChat(cmd *cobra.Command, a *app, v *view, start func(context.Context, pipeline.DeltaFunc) (persona.ChatMessage, error)) error {
	ctx, cancel := a.llmContext(cmd.Context())
	defer cancel()
	return a.explain(chatSender(v, "vibe.sources", dropText(start))(ctx, ""))
}

func dropText(fn func(context.Context, pipeline.DeltaFunc) (persona.ChatMessage, error)) func(context.Context, string, pipeline.DeltaFunc) (persona.ChatMessage, error) {
	return func(ctx context.Context, _ string, onDelta pipeline.DeltaFunc) (persona.ChatMessage, error) {
		return fn(ctx, onDelta)
	}
}
