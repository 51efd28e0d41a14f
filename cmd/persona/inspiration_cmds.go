package main

import (
	"time"

	"github.com/spf13/cobra"
)

func (c *cli) inspirationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inspiration",
		Aliases: []string{"inspire"},
		Short:   "Browse the question library used to spark a vibe",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			v := a.view(cmd)
			v.categories(a.lib.Categories())
			if last, ok := a.lib.LastRefresh(); ok {
				v.info("refreshed " + last.Format(time.DateTime))
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "expand",
			Short: "Ask the muse for a fresh batch of categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a := c.app
				v := a.view(cmd)
				ctx, cancel := a.llmContext(cmd.Context())
				defer cancel()
				if err := a.lib.Expand(ctx, string(a.tr.Language())); err != nil {
					v.failure(v.t("inspiration.error.unavailable", nil))
					return err
				}
				v.success(v.t("inspiration.daily_muse_toast", nil))
				v.categories(a.lib.Categories())
				return nil
			},
		},
		&cobra.Command{
			Use:   "remix",
			Short: "Let the muse rewrite the whole library",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a := c.app
				v := a.view(cmd)
				ctx, cancel := a.llmContext(cmd.Context())
				defer cancel()
				if err := a.lib.Remix(ctx, string(a.tr.Language())); err != nil {
					v.failure(v.t("inspiration.error.unavailable", nil))
					return err
				}
				v.success(v.t("inspiration.remix_success_toast", nil))
				return nil
			},
		},
		&cobra.Command{
			Use:   "refresh",
			Short: "Expand the library if the last refresh is older than the cooldown",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a := c.app
				v := a.view(cmd)
				ctx, cancel := a.llmContext(cmd.Context())
				defer cancel()
				refreshed, err := a.lib.RefreshIfStale(ctx, string(a.tr.Language()), time.Now())
				if err != nil {
					return err
				}
				if refreshed {
					v.success(v.t("inspiration.daily_muse_toast", nil))
				} else {
					v.info("library is fresh")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the built-in library",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a := c.app
				if err := a.lib.ResetToDefault(); err != nil {
					return err
				}
				v := a.view(cmd)
				v.success(v.t("inspiration.reset_done", nil))
				return nil
			},
		},
	)
	return cmd
}
