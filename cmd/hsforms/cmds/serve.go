package cmds

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hsforms/internal/api"
	"hsforms/internal/backends"
	"hsforms/internal/backends/memory"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// sweepInterval is how often an in-process cache drops expired entries.
const sweepInterval = time.Minute

func newServeCommand() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forms endpoints over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := backends.SettingsBackendFromEnv()
			if err != nil {
				return err
			}
			cache, err := backends.CacheBackendFromEnv()
			if err != nil {
				return err
			}
			opts, err := optionsFromEnv()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if mc, ok := cache.(*memory.Cache); ok {
				go mc.RunSweeper(ctx, sweepInterval)
			}

			stop, done := api.RunServerInterruptible(port, store, cache, opts)
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			select {
			case err := <-done:
				return err
			case s := <-sig:
				log.Infof("received %s, shutting down", s)
				stop <- struct{}{}
				return <-done
			}
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	return cmd
}
