package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/creatorstack/strategist/internal/httpserver"
	"github.com/creatorstack/strategist/internal/logger"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local HTTP playground (loopback only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			a, err := newApp(configPath)
			if err != nil {
				return err
			}

			router := httpserver.NewRouter(a.Coord, a.Store, a.Telemetry, a.Log)

			addr := fmt.Sprintf("%s:%d", a.Options.Server.Host, a.Options.Server.Port)
			server := &http.Server{
				Addr:         addr,
				Handler:      router,
				ReadTimeout:  a.Options.Server.ReadTimeout,
				WriteTimeout: a.Options.Server.WriteTimeout,
				IdleTimeout:  a.Options.Server.IdleTimeout,
			}

			a.Log.Info("starting local playground server", logger.String("address", addr))
			return server.ListenAndServe()
		},
	}
	return cmd
}
