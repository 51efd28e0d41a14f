package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/persona-forge/internal/config"
	"github.com/danielpatrickdp/persona-forge/internal/gemini"
	"github.com/danielpatrickdp/persona-forge/internal/history"
	"github.com/danielpatrickdp/persona-forge/internal/i18n"
	"github.com/danielpatrickdp/persona-forge/internal/metrics"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/pipeline"
	"github.com/danielpatrickdp/persona-forge/internal/state"
)

func testApp() *app {
	return &app{
		cfg:   config.Default(),
		log:   zerolog.Nop(),
		stack: history.New(),
		rec:   metrics.NewPrometheusRecorder(),
		tr:    i18n.NewStore(state.NewMemoryStore(), i18n.English, i18n.WithDarkDetector(func() bool { return true })),
	}
}

func TestIndexArg(t *testing.T) {
	i, err := indexArg("1")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = indexArg("3")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	for _, bad := range []string{"0", "-1", "two", ""} {
		_, err := indexArg(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseSelection(t *testing.T) {
	sel, err := parseSelection("inner_voice, worldview")
	require.NoError(t, err)
	assert.Equal(t, persona.RemixSelection{InnerVoice: true, Worldview: true}, sel)

	sel, err = parseSelection("")
	require.NoError(t, err)
	assert.Equal(t, persona.RemixSelection{}, sel)

	_, err = parseSelection("inner_voice,charm")
	assert.ErrorContains(t, err, "charm")
}

func TestReplHelpIsSorted(t *testing.T) {
	got := replHelp(map[string]replAction{
		"/finish": {help: "done"},
		"/skip":   {help: "next"},
		"/quit":   {help: "leave"},
	})
	assert.Equal(t, "commands: /finish done · /quit leave · /skip next", got)
}

func TestExplainTranslatesBusy(t *testing.T) {
	a := testApp()
	assert.NoError(t, a.explain(nil))

	err := a.explain(fmt.Errorf("send: %w", pipeline.ErrBusy))
	assert.Equal(t, a.tr.T("common.busy", nil), err.Error())

	plain := fmt.Errorf("boom")
	assert.Same(t, plain, a.explain(plain))
}

func TestReplRoutesLinesAndActions(t *testing.T) {
	a := testApp()
	var out bytes.Buffer
	v := newView(&out, a.tr)

	var sent []string
	send := func(_ context.Context, text string) error {
		sent = append(sent, text)
		return nil
	}
	skips := 0
	in := strings.NewReader("hello\n\n/skip\n/unknown\n  world  \n/exit\nafter quit\n")

	err := a.repl(context.Background(), in, v, send, map[string]replAction{
		"/skip": {help: "skip", run: func(context.Context) (bool, error) {
			skips++
			return false, nil
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world"}, sent)
	assert.Equal(t, 1, skips)
}

func TestReplReportsErrorsAndKeepsGoing(t *testing.T) {
	a := testApp()
	var out bytes.Buffer
	v := newView(&out, a.tr)

	calls := 0
	send := func(context.Context, string) error {
		calls++
		if calls == 1 {
			return pipeline.ErrBusy
		}
		return nil
	}

	err := a.repl(context.Background(), strings.NewReader("one\ntwo\n"), v, send, map[string]replAction{})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, out.String(), a.tr.T("common.busy", nil))
}

func TestReplStopsWhenActionSaysSo(t *testing.T) {
	a := testApp()
	v := newView(&bytes.Buffer{}, a.tr)

	var sent []string
	err := a.repl(context.Background(), strings.NewReader("/finish\nlater\n"), v,
		func(_ context.Context, text string) error {
			sent = append(sent, text)
			return nil
		},
		map[string]replAction{
			"/finish": {help: "finish", run: func(context.Context) (bool, error) { return true, nil }},
		})
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestHistoryActionsWorkWithoutAPIKey(t *testing.T) {
	a := testApp()
	sp := persona.StructuredPersona{Appearance: "a", Personality: "p", Backstory: "b", SpeechStyle: "s", Behaviors: "x"}
	a.stack.Push(
		persona.WithVibeMessages([]persona.ChatMessage{{Role: persona.RoleUser, Text: "hi"}}),
		persona.WithStructuredPersona(&sp),
		persona.WithStep(persona.StepCrystallize),
	)

	e := a.pipeline()
	defer e.Close()
	require.NoError(t, e.ModifyVibe())
	assert.Equal(t, persona.StepVibeEntry, a.stack.Current().Step)
	require.NoError(t, e.ProceedToCheck())
	assert.Equal(t, persona.StepCheck, a.stack.Current().Step)
	assert.NotEmpty(t, a.stack.Current().CurrentDraft)

	_, err := e.RunAnalysis(context.Background())
	assert.ErrorIs(t, err, errNoAPIKey)
	assert.Equal(t, persona.StepCheck, a.stack.Current().Step)
}

func TestLazyChatReportsMissingKeyOnSend(t *testing.T) {
	chat := lazyGateway{testApp()}.StartChat("system", gemini.Options{})

	var errs []error
	for _, err := range chat.SendStream(context.Background(), "hello") {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], errNoAPIKey)

	_, err := chat.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, errNoAPIKey)
}
