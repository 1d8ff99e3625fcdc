package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/followme/attendance-cli/pkg/output"
	"github.com/followme/attendance-cli/pkg/service"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit pending and failed entries now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAttendanceService(app).Submit()
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the background submission loop in the foreground",
	Long: `Watch runs the submission scheduler until interrupted: the queue is
flushed every 60 seconds and whenever connectivity comes back, with a
30 second stuck-submission timeout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			output.PrintInfo("Stopping...")
			cancel()
		}()

		return service.NewAttendanceService(app).Watch(ctx)
	},
}
