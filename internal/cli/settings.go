// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (r *runner) settingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change country and language",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the resolved country, currency and language",
			Args:  cobra.NoArgs,
			RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
				current := app.Settings.Current()
				if r.jsonOutput {
					return r.printJSON(cmd, current)
				}

				t := app.Translator
				writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(writer, "%s\t%s\n", t.T("country"), current.Country)
				fmt.Fprintf(writer, "%s\t%s\n", t.T("currency"), current.Currency)
				fmt.Fprintf(writer, "%s\t%s (%s)\n", t.T("language"), app.Settings.LanguageName(), current.Language)
				return writer.Flush()
			}),
		},
		&cobra.Command{
			Use:   "country <name>",
			Short: "Change the country; currency and language follow it",
			Long: `Change the country. The currency and the default language are taken
from the country, replacing any language override.

Supported: Indonesia, Singapore, Malaysia.`,
			Args: cobra.ExactArgs(1),
			RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
				result := app.Settings.UpdateCountry(cmd.Context(), args[0])
				current := app.Settings.Current()
				return r.report(cmd, result, fmt.Sprintf("%s: %s (%s, %s)",
					app.Translator.T("country"), current.Country, current.Currency, current.Language))
			}),
		},
		&cobra.Command{
			Use:   "language <ID|EN>",
			Short: "Override the display language",
			Args:  cobra.ExactArgs(1),
			RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
				result := app.Settings.UpdateLanguage(cmd.Context(), args[0])
				return r.report(cmd, result, fmt.Sprintf("%s: %s", app.Translator.T("language"), app.Settings.LanguageName()))
			}),
		},
	)

	return cmd
}
