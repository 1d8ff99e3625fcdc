package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/followme/attendance-cli/pkg/output"
)

// SettingsService edits the connection configuration.
type SettingsService struct {
	app *App
}

// NewSettingsService creates a new settings service
func NewSettingsService(app *App) *SettingsService {
	return &SettingsService{app: app}
}

// Show prints the current settings with the password masked.
func (s *SettingsService) Show() error {
	cfg, err := s.app.Settings.Load()
	if err != nil {
		return err
	}

	password := ""
	if cfg.Password != "" {
		password = "********"
	}

	if output.GetFormat() == output.FormatJSON {
		masked := *cfg
		masked.Password = password
		return output.PrintJSON(masked)
	}

	rows := [][]string{
		{"api", cfg.APIBaseURL},
		{"key", cfg.APIKey},
		{"username", cfg.Username},
		{"password", password},
		{"authRoute", cfg.AuthRoute},
		{"validateRoute", cfg.ValidateRoute},
		{"mainRoute", cfg.MainRoute},
	}
	for k, v := range cfg.Extensions {
		rows = append(rows, []string{"extension:" + k, v})
	}
	output.PrintTable([]string{"Setting", "Value"}, rows)
	return nil
}

// Set updates one settings field by name.
func (s *SettingsService) Set(field, value string) error {
	cfg, err := s.app.Settings.Load()
	if err != nil {
		return err
	}

	switch strings.ToLower(field) {
	case "api":
		cfg.APIBaseURL = value
	case "key":
		cfg.APIKey = value
	case "username":
		cfg.Username = value
	case "password":
		cfg.Password = value
	case "authroute":
		cfg.AuthRoute = value
	case "validateroute":
		cfg.ValidateRoute = value
	case "mainroute":
		cfg.MainRoute = value
	default:
		return fmt.Errorf("unknown setting %q", field)
	}

	if err := s.app.Settings.Save(cfg); err != nil {
		return err
	}
	output.PrintSuccess("Updated %s", strings.ToLower(field))
	return nil
}

// SetExtension adds or updates a header extension.
func (s *SettingsService) SetExtension(key, value string) error {
	cfg, err := s.app.Settings.Load()
	if err != nil {
		return err
	}
	cfg.Extensions[key] = value
	if err := s.app.Settings.Save(cfg); err != nil {
		return err
	}
	output.PrintSuccess("Extension %s set", key)
	return nil
}

// RemoveExtension deletes a header extension.
func (s *SettingsService) RemoveExtension(key string) error {
	cfg, err := s.app.Settings.Load()
	if err != nil {
		return err
	}
	if _, ok := cfg.Extensions[key]; !ok {
		return fmt.Errorf("unknown extension %q", key)
	}
	delete(cfg.Extensions, key)
	if err := s.app.Settings.Save(cfg); err != nil {
		return err
	}
	output.PrintSuccess("Extension %s removed", key)
	return nil
}

// ListCategories prints the category dictionary.
func (s *SettingsService) ListCategories() error {
	cfg, err := s.app.Settings.Load()
	if err != nil {
		return err
	}

	if output.GetFormat() == output.FormatJSON {
		return output.PrintJSON(cfg.Categories)
	}

	keys := make([]string, 0, len(cfg.Categories))
	for k := range cfg.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{k, cfg.Categories[k]}
	}
	output.PrintTable([]string{"Key", "Label"}, rows)
	return nil
}

// AddCategory adds or relabels a category.
func (s *SettingsService) AddCategory(key, label string) error {
	cfg, err := s.app.Settings.Load()
	if err != nil {
		return err
	}
	if label == "" {
		label = key
	}
	if err := cfg.SetCategory(key, label); err != nil {
		return err
	}
	if err := s.app.Settings.Save(cfg); err != nil {
		return err
	}
	output.PrintSuccess("Category %s added", key)
	return nil
}

// RemoveCategory deletes a category; the default is protected.
func (s *SettingsService) RemoveCategory(key string) error {
	cfg, err := s.app.Settings.Load()
	if err != nil {
		return err
	}
	if err := cfg.RemoveCategory(key); err != nil {
		return err
	}
	if err := s.app.Settings.Save(cfg); err != nil {
		return err
	}
	output.PrintSuccess("Category %s removed", key)
	return nil
}

// TestConnection performs an end-to-end auth check against the server and
// reports the outcome. Explicit user action, so the message is shown.
func (s *SettingsService) TestConnection() error {
	cfg, err := s.app.Settings.Load()
	if err != nil {
		return err
	}
	if cfg.APIBaseURL == "" {
		output.PrintError("No server configured")
		return fmt.Errorf("no server configured")
	}

	output.PrintInfo("Testing connection to %s...", cfg.APIBaseURL)
	tok, err := s.app.Gateway.EnsureAuthenticated(cfg)
	if err != nil {
		output.PrintError("Connection test failed: %v", err)
		return err
	}

	output.PrintSuccess("Connected and authenticated (user %s)", tok.UserID)
	return nil
}
