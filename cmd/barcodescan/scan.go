package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ericlevine/zxcore/scan"
)

func (a *app) scanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [files|dirs...]",
		Short: "Decode barcodes in image files and directories",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runScan,
	}
}

func (a *app) runScan(cmd *cobra.Command, args []string) error {
	defer a.log.Sync() //nolint:errcheck
	paths, err := scan.ExpandPaths(args)
	if err != nil {
		return err
	}
	svc, srv, err := a.service()
	if err != nil {
		return err
	}
	defer srv.stop()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	results, scanErr := svc.ScanFiles(ctx, paths)

	out := cmd.OutOrStdout()
	decoded := 0
	for _, r := range results {
		if r.Outcome == scan.OutcomeDecoded {
			decoded++
		}
		fmt.Fprintln(out, r)
	}
	fmt.Fprintf(out, "Decoded %d of %d files\n", decoded, len(results))
	if scanErr != nil {
		return scanErr
	}
	if decoded < len(results) {
		return errors.Errorf("%d of %d files not decoded", len(results)-decoded, len(results))
	}
	return nil
}

func (a *app) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch DIR",
		Short: "Decode image files as they appear in a directory",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runWatch,
	}
}

func (a *app) runWatch(cmd *cobra.Command, args []string) error {
	defer a.log.Sync() //nolint:errcheck
	svc, srv, err := a.service()
	if err != nil {
		return err
	}
	defer srv.stop()

	w, err := svc.NewWatcher(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	out := cmd.OutOrStdout()
	return w.Run(ctx, func(r scan.FileResult) {
		fmt.Fprintln(out, r)
	})
}
