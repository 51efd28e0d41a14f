package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/pipeline"
)

// replAction handles a slash command. Returning stop ends the loop.
type replAction struct {
	help string
	run  func(ctx context.Context) (stop bool, err error)
}

// repl reads lines until EOF, /quit or an action that stops it. Plain lines
// go to send; each model call gets its own timeout.
func (a *app) repl(ctx context.Context, in io.Reader, v *view, send func(ctx context.Context, text string) error, actions map[string]replAction) error {
	actions["/quit"] = replAction{help: "leave", run: func(context.Context) (bool, error) { return true, nil }}
	v.info(replHelp(actions))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(v.w, v.title.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(v.w)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/exit" {
			line = "/quit"
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		callCtx, cancel := a.llmContext(ctx)
		var (
			stop bool
			err  error
		)
		if strings.HasPrefix(line, "/") {
			act, ok := actions[strings.Fields(line)[0]]
			if !ok {
				v.info(replHelp(actions))
				cancel()
				continue
			}
			stop, err = act.run(callCtx)
		} else {
			err = send(callCtx, line)
		}
		cancel()

		if err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			v.failure(a.explain(err).Error())
		}
		if stop {
			return nil
		}
	}
}

func replHelp(actions map[string]replAction) string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+actions[name].help)
	}
	return "commands: " + strings.Join(parts, " · ")
}

// chatSender adapts a streaming engine call to the repl.
func chatSender(v *view, sourcesKey string, send func(ctx context.Context, text string, onDelta pipeline.DeltaFunc) (persona.ChatMessage, error)) func(context.Context, string) error {
	return func(ctx context.Context, text string) error {
		sp := v.streamer()
		reply, err := send(ctx, text, sp.onDelta)
		if err != nil {
			if sp.started {
				fmt.Fprintln(v.w)
			}
			return err
		}
		sp.done(reply, sourcesKey)
		return nil
	}
}
