package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	synchub "masterplan/internal/sync"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print a line every time the plot catalog is saved",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := apiClient().Watch(ctx, func(ev synchub.PlotsEvent) {
				if outputJSON {
					_ = writeJSON(ev)
					return
				}
				fmt.Printf("%s  revision %s  plots %s\n",
					ev.At.Format("15:04:05"), ev.Revision, strings.Join(ev.PlotIDs, ","))
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
