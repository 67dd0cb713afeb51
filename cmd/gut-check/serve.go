// cmd/gut-check/serve.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mcp-gut-check/internal/config"
	"mcp-gut-check/internal/scheduler"
	"mcp-gut-check/internal/server"
)

var (
	serveTransport string
	servePort      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP tool server",
	Long:  `Starts the gut-check MCP tool server over HTTP (POST /) or stdio, and the report scheduler when schedule.enabled is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if serveTransport != "" {
			cfg.Server.Transport = config.Transport(serveTransport)
		}
		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		server.Version = Version
		srv := server.NewGutCheckServer(cfg, a.storage, a.reports)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if cfg.Schedule.Enabled {
			sched := scheduler.NewService(a.reports, cfg.Schedule.Expr, cfg.Analysis.WindowDays)
			if err := sched.Start(ctx); err != nil {
				return err
			}
			defer sched.Stop()
			srv.SetSchedule(sched)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start(ctx)
		}()

		select {
		case <-sigCh:
			log.Println("[server] received shutdown signal")
		case err := <-errCh:
			if err != nil {
				log.Printf("[server] server error: %v", err)
				return err
			}
			return nil
		}

		log.Println("[server] shutting down...")
		cancel()
		if err := srv.Stop(); err != nil {
			log.Printf("[server] error during shutdown: %v", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "transport override: http or stdio")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port override")
	rootCmd.AddCommand(serveCmd)
}
