package cmd

import (
	"github.com/spf13/cobra"

	"github.com/followme/attendance-cli/pkg/service"
)

var importCategory string

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Queue entries from a CSV roster",
	Long:  "Reads a CSV file with a header row and queues one pending entry per data row. A name column is required; other columns are carried along as entry data.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := service.NewImportService(app).ImportCSV(args[0], importCategory)
		return err
	},
}

func init() {
	importCmd.Flags().StringVar(&importCategory, "category", "", "Category for the imported entries (default: Main)")
}
