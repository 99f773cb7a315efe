package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/chaintrack-labs/chaintrack-go/pkg/reconciler"
	"github.com/chaintrack-labs/chaintrack-go/pkg/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the verification API and reconcile unconfirmed batches",
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()
	l := rt.logger

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(rt.store, rt.manager, rt.verifier, rt.cfg.Port, l)
	if err := srv.Start(); err != nil {
		return err
	}

	done := make(chan struct{})
	if rt.cfg.ReconcileInterval > 0 && (rt.cfg.CanWrite() || rt.cfg.DryRun) {
		r := reconciler.NewReconciler(rt.manager, &reconciler.Config{Interval: rt.cfg.ReconcileInterval}, l)
		go func() {
			defer close(done)
			r.Run(ctx)
		}()
	} else {
		l.Sugar().Info("Reconciler disabled, no signing key or zero interval")
		close(done)
	}

	l.Sugar().Infow("chaintrack server running",
		"port", rt.cfg.Port,
		"chain", rt.cfg.ChainName,
		"contract", rt.cfg.ContractAddress,
		"dryRun", rt.cfg.DryRun,
	)
	l.Sugar().Info("Press Ctrl+C to stop")

	<-ctx.Done()
	l.Sugar().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		l.Sugar().Warnw("HTTP server shutdown failed", "error", err)
	}
	<-done
	return nil
}
