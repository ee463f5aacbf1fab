// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/tripora/internal/i18n"
	"github.com/taibuivan/tripora/pkg/slice"
)

func (r *runner) translateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "translate <key> [args...]",
		Short: "Look up a UI string in the current language",
		Long: `Look up a UI string in the current language. Extra arguments fill the
template's verbs. A key missing in the current language prints the key itself.`,
		Args: cobra.MinimumNArgs(1),
		RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if len(args) == 1 {
				fmt.Fprintln(cmd.OutOrStdout(), app.Translator.T(args[0]))
				return nil
			}

			values := slice.Map(args[1:], func(arg string) any { return arg })
			fmt.Fprintln(cmd.OutOrStdout(), app.Translator.Tf(args[0], values...))
			return nil
		}),
	}
}

func (r *runner) i18nCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "i18n",
		Short: "Inspect the bundled dictionary",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "gaps",
		Short: "List keys defined in one language but missing in another",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dictionary, err := i18n.Load()
			if err != nil {
				return err
			}

			gaps := dictionary.Gaps()
			if r.jsonOutput {
				return r.printJSON(cmd, gaps)
			}

			for _, lang := range dictionary.Languages() {
				missing := gaps[lang]
				if len(missing) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: complete\n", lang)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: missing %s\n", lang, strings.Join(missing, ", "))
			}
			return nil
		},
	})

	return cmd
}
