// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/platform/outcome"
	"github.com/taibuivan/tripora/pkg/pointer"
)

// whoamiView is the printable session. The token itself is never printed.
type whoamiView struct {
	Status    string         `json:"status"`
	User      map[string]any `json:"user,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	Expired   bool           `json:"expired"`
}

func (r *runner) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			current := app.Session.Current()
			if !current.Authenticated() {
				return r.report(cmd, outcome.Fail(apperr.CodeUnauthorized, "You are not logged in"), "")
			}

			view := whoamiView{
				Status:    string(current.Status),
				User:      current.User,
				ExpiresAt: pointer.NonZero(current.ExpiresAt),
				Expired:   app.Session.TokenExpired(),
			}

			if r.jsonOutput {
				return r.printJSON(cmd, view)
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, key := range slices.Sorted(maps.Keys(current.User)) {
				fmt.Fprintf(writer, "%s\t%v\n", key, current.User[key])
			}
			if view.ExpiresAt != nil {
				fmt.Fprintf(writer, "token expires\t%s\n", view.ExpiresAt.Local().Format(time.RFC1123))
			}
			if view.Expired {
				fmt.Fprintf(writer, "\t%s\n", app.Translator.T("session_expired"))
			}
			return writer.Flush()
		}),
	}
}

func (r *runner) refreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-fetch the profile; a rejected session is signed out",
		Args:  cobra.NoArgs,
		RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			return r.report(cmd, app.Session.RefreshUserInfo(cmd.Context()), "Profile refreshed")
		}),
	}
}

func (r *runner) updateProfileCommand() *cobra.Command {
	var fields map[string]string

	cmd := &cobra.Command{
		Use:   "update-profile --set key=value [--set key=value ...]",
		Short: "Update profile fields of the signed-in user",
		Args:  cobra.NoArgs,
		RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			update := make(map[string]any, len(fields))
			for key, value := range fields {
				update[key] = value
			}

			userID := app.Session.Current().User.ID()
			return r.report(cmd, app.Session.UpdateProfile(cmd.Context(), userID, update), "Profile updated")
		}),
	}

	cmd.Flags().StringToStringVar(&fields, "set", nil, "field to update as key=value (repeatable)")
	return cmd
}
