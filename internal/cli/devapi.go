// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/taibuivan/tripora/internal/api"
	"github.com/taibuivan/tripora/internal/platform/apitest"
	"github.com/taibuivan/tripora/internal/platform/config"
	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/storage"
)

func (r *runner) devAPICommand() *cobra.Command {
	var (
		addr                   string
		seedEmail, seedPass    string
		seedUsername, seedName string
	)

	cmd := &cobra.Command{
		Use:   "dev-api",
		Short: "Serve a local fake of the remote API for development",
		Long: `Serve an in-memory fake of the Tripora REST API. Point the client at it with
TRIPORA_API_BASE_URL=http://<addr>. Every verification and reset code is 123456.

When the configured storage driver is redis or postgres, /ready also checks it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := r.loadConfig()
			if err != nil {
				return err
			}
			log := r.logger(cmd, cfg)
			ctx := cmd.Context()

			fake := apitest.New(log)
			if seedEmail != "" {
				fake.AddAccount(apitest.Account{
					Username: seedUsername,
					Email:    seedEmail,
					Password: seedPass,
					Verified: true,
					Profile:  map[string]any{"name": seedName},
				})
			}

			// Local drivers hold a file lock the CLI needs, so only servers are checked.
			var health api.HealthDependencies
			if cfg.StorageDriver == config.DriverRedis || cfg.StorageDriver == config.DriverPostgres {
				store, err := storage.Open(ctx, cfg, &log)
				if err != nil {
					return err
				}
				defer store.Close()
				health.CheckStorage = func() error { return storage.Ping(context.Background(), store) }
			}

			liveness, readiness := api.NewHealthHandlers(health, &log)
			server := api.NewServer(addr, &log, api.Handlers{
				Liveness:  liveness,
				Readiness: readiness,
				Remote:    fake.Handler(),
			})

			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fake API listening on http://%s\n", listener.Addr())

			serverErr := make(chan error, 1)
			go func() {
				if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
				close(serverErr)
			}()

			// Block until the signal context ends or the server fails.
			select {
			case <-ctx.Done():
				log.Info().Msg("shutdown signal received")
			case err := <-serverErr:
				if err != nil {
					return err
				}
			}

			if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			log.Info().Msg("server stopped cleanly")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", constants.DevServerAddr, "listen address")
	cmd.Flags().StringVar(&seedEmail, "seed-email", "", "create a verified account with this email")
	cmd.Flags().StringVar(&seedPass, "seed-password", "password123", "password of the seeded account")
	cmd.Flags().StringVar(&seedUsername, "seed-username", "", "username of the seeded account")
	cmd.Flags().StringVar(&seedName, "seed-name", "Tripora Developer", "display name of the seeded account")

	return cmd
}
