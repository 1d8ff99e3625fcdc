package cmd

import (
	"github.com/spf13/cobra"

	"github.com/followme/attendance-cli/pkg/service"
)

var categoryLabel string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage connection settings",
	Long:  "Configure the attendance server connection, routes, headers and categories",
}

var showSettingsCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSettingsService(app).Show()
	},
}

var setSettingCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Update a settings field (api, key, username, password, authRoute, validateRoute, mainRoute)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSettingsService(app).Set(args[0], args[1])
	},
}

var testConnectionCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connectivity and authentication against the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSettingsService(app).TestConnection()
	},
}

var extensionCmd = &cobra.Command{
	Use:   "extension",
	Short: "Manage header extensions sent with every request",
}

var setExtensionCmd = &cobra.Command{
	Use:   "set <header> <value>",
	Short: "Set a header extension",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSettingsService(app).SetExtension(args[0], args[1])
	},
}

var removeExtensionCmd = &cobra.Command{
	Use:   "remove <header>",
	Short: "Remove a header extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSettingsService(app).RemoveExtension(args[0])
	},
}

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage the category dictionary",
}

var listCategoriesCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSettingsService(app).ListCategories()
	},
}

var addCategoryCmd = &cobra.Command{
	Use:   "add <key>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSettingsService(app).AddCategory(args[0], categoryLabel)
	},
}

var removeCategoryCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove a category (the Main category is protected)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSettingsService(app).RemoveCategory(args[0])
	},
}

func init() {
	addCategoryCmd.Flags().StringVar(&categoryLabel, "label", "", "Display label (default: the key)")

	extensionCmd.AddCommand(setExtensionCmd)
	extensionCmd.AddCommand(removeExtensionCmd)

	categoryCmd.AddCommand(listCategoriesCmd)
	categoryCmd.AddCommand(addCategoryCmd)
	categoryCmd.AddCommand(removeCategoryCmd)

	settingsCmd.AddCommand(showSettingsCmd)
	settingsCmd.AddCommand(setSettingCmd)
	settingsCmd.AddCommand(testConnectionCmd)
	settingsCmd.AddCommand(extensionCmd)
	settingsCmd.AddCommand(categoryCmd)
}
