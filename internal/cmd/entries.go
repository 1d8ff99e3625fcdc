package cmd

import (
	"github.com/spf13/cobra"

	"github.com/followme/attendance-cli/pkg/service"
)

var (
	listCategory  string
	addName       string
	addPhone      string
	addCategory   string
	addTagFile    string
	deleteIndexes []int
	deleteAll     bool
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Inspect and edit the attendance queue",
}

var listEntriesCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued entries, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAttendanceService(app).List(listCategory)
	},
}

var addEntryCmd = &cobra.Command{
	Use:   "add",
	Short: "Queue an attendance entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewAttendanceService(app)
		if addTagFile != "" {
			return svc.AddFromTagFile(addTagFile, addCategory)
		}
		return svc.Add(addName, addPhone, addCategory, nil)
	},
}

var deleteEntriesCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete entries by index, or everything with --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAttendanceService(app).Delete(deleteIndexes, deleteAll)
	},
}

func init() {
	listEntriesCmd.Flags().StringVar(&listCategory, "category", "", "Only show entries in this category")

	addEntryCmd.Flags().StringVar(&addName, "name", "", "Attendee name")
	addEntryCmd.Flags().StringVar(&addPhone, "phone", "", "Attendee phone")
	addEntryCmd.Flags().StringVar(&addCategory, "category", "", "Entry category (default: Main)")
	addEntryCmd.Flags().StringVar(&addTagFile, "tag-file", "", "Decode a tag payload file instead of --name/--phone")

	deleteEntriesCmd.Flags().IntSliceVar(&deleteIndexes, "index", nil, "Entry indexes to delete (repeatable)")
	deleteEntriesCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete every entry")

	entriesCmd.AddCommand(listEntriesCmd)
	entriesCmd.AddCommand(addEntryCmd)
	entriesCmd.AddCommand(deleteEntriesCmd)
}
