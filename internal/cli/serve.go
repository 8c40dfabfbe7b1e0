package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/buildtall-systems/bankid-mock/internal/commands"
	"github.com/buildtall-systems/bankid-mock/internal/config"
	"github.com/buildtall-systems/bankid-mock/internal/db"
	"github.com/buildtall-systems/bankid-mock/internal/notify"
	"github.com/buildtall-systems/bankid-mock/internal/order"
	"github.com/buildtall-systems/bankid-mock/internal/rp"
	"github.com/buildtall-systems/bankid-mock/internal/server"
	"github.com/buildtall-systems/bankid-mock/internal/sweeper"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock identity provider",
	Long:  `Start the HTTP server, the expiry sweeper and the event journal.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("listen", config.DefaultListen, "address to listen on")
	_ = viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := commands.ValidateAllowList(cfg.Admin.Allow); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	log.Printf("bankid-mock starting...")
	log.Printf("order ttl: %s, sweep every %s", cfg.Orders.TTL, cfg.Orders.SweepInterval)
	log.Printf("journal: %s", cfg.Journal.Path)
	log.Printf("aliases: %d, presets: %d", len(cfg.Mock.Aliases), len(cfg.Mock.QuickUsers))

	journal, err := db.Open(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	if err := journal.Migrate(); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Printf("journal ready")

	// Create context that cancels on shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	store := order.NewStore()
	bus := notify.NewBus()
	bus.SetVerbose(cfg.Verbose)

	sweep := sweeper.New(store, bus,
		sweeper.WithInterval(cfg.Orders.SweepInterval),
		sweeper.WithTTL(cfg.Orders.TTL),
		sweeper.WithRecorder(journal),
	)
	go sweep.Run(ctx)

	svc := rp.NewService(store, bus, cfg.Mock, rp.WithRecorder(journal))
	srv := server.New(server.Options{
		Listen:     cfg.Server.Listen,
		AdminAllow: cfg.Admin.Allow,
		Verbose:    cfg.Verbose,
	}, svc, bus, journal)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	log.Printf("stopped")
	return nil
}
