// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cli is the command-line consumer of the client core. It plays the
part the app screens play on a device: build the services once, await the
startup gates, then invoke one operation per command.

Commands never see Go errors from the services. They receive results and
print them; a failed result becomes a non-zero exit.
*/
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/taibuivan/tripora/internal/platform/config"
	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/platform/logger"
	"github.com/taibuivan/tripora/internal/provider"
)

// ConfigLoader supplies configuration. Production passes [config.Load].
type ConfigLoader func() (*config.Config, error)

// runner carries the global flags and builds the app per invocation.
type runner struct {
	loadConfig ConfigLoader
	jsonOutput bool
	verbose    bool
}

// NewRootCommand builds the command tree.
func NewRootCommand(loadConfig ConfigLoader) *cobra.Command {
	r := &runner{loadConfig: loadConfig}

	root := &cobra.Command{
		Use:     constants.AppName,
		Short:   "Tripora client core from the command line",
		Version: constants.AppVersion,
		Long: `tripora drives the Tripora client core: sign in and out, manage the
profile, and choose the country and language used for prices and text.

Configuration comes from TRIPORA_* environment variables (or a .env file).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&r.jsonOutput, "json", false, "print results as JSON")
	root.PersistentFlags().BoolVarP(&r.verbose, "verbose", "v", false, "log service activity to stderr")

	root.AddCommand(
		r.loginCommand(),
		r.loginWithCommand(),
		r.registerCommand(),
		r.verifyCommand(),
		r.resendOTPCommand(),
		r.forgotPasswordCommand(),
		r.resetPasswordCommand(),
		r.whoamiCommand(),
		r.refreshCommand(),
		r.updateProfileCommand(),
		r.logoutCommand(),
		r.settingsCommand(),
		r.translateCommand(),
		r.i18nCommand(),
		r.devAPICommand(),
	)

	return root
}

// # Wiring

// logger writes to the command's stderr. Without --verbose only warnings
// and errors are shown, so normal output stays readable.
func (r *runner) logger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.IsDevelopment(), cfg.Debug)
	if !r.verbose && !cfg.Debug {
		log = log.Level(zerolog.WarnLevel)
	}
	return log
}

// withApp wraps a command body with app construction and teardown.
func (r *runner) withApp(run func(cmd *cobra.Command, args []string, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := r.loadConfig()
		if err != nil {
			return err
		}

		log := r.logger(cmd, cfg)
		app, err := NewApp(cmd.Context(), cfg, &log, devicePrompter(cmd))
		if err != nil {
			return err
		}
		defer func() {
			if cerr := app.Close(); cerr != nil {
				log.Error().Err(cerr).Msg("storage close failed")
			}
		}()

		return run(cmd, args, app)
	}
}

// devicePrompter prints the device-flow instructions.
func devicePrompter(cmd *cobra.Command) provider.Prompter {
	return provider.PrompterFunc(func(ctx context.Context, kind provider.Kind, verificationURI, userCode string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(),
			"To sign in with %s, open %s and enter the code %s\n", kind, verificationURI, userCode)
		return err
	})
}
