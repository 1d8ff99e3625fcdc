package service

import (
	"fmt"

	"github.com/followme/attendance-cli/pkg/logger"
	"github.com/followme/attendance-cli/pkg/output"
	"github.com/followme/attendance-cli/pkg/prompter"
)

// AuthService handles login, logout and token inspection.
type AuthService struct {
	app *App
}

// NewAuthService creates a new auth service
func NewAuthService(app *App) *AuthService {
	return &AuthService{app: app}
}

// Login authenticates with the configured server. Missing credentials are
// prompted for; save persists them into settings for background use.
func (s *AuthService) Login(save bool) error {
	cfg, err := s.app.Settings.Load()
	if err != nil {
		logger.Error("Failed to load settings", "err", err)
		return err
	}

	if cfg.APIBaseURL == "" {
		output.PrintError("No server configured. Run 'followme settings set api <url>' first.")
		return fmt.Errorf("no server configured")
	}

	username := cfg.Username
	if username == "" {
		username, err = prompter.PromptString("Username: ")
		if err != nil {
			return err
		}
		if username == "" {
			return fmt.Errorf("username cannot be empty")
		}
	}

	password := cfg.Password
	if password == "" {
		password, err = prompter.PromptPassword("Password: ")
		if err != nil {
			return err
		}
		if password == "" {
			return fmt.Errorf("password cannot be empty")
		}
	}

	output.PrintInfo("Authenticating...")
	tok, err := s.app.Gateway.Authenticate(cfg.APIBaseURL, cfg.APIKey, username, password, cfg.AuthRoute, cfg.Extensions)
	if err != nil {
		output.PrintError("Login failed: %v", err)
		return err
	}

	if save && (cfg.Username != username || cfg.Password != password) {
		cfg.Username = username
		cfg.Password = password
		if err := s.app.Settings.Save(cfg); err != nil {
			output.PrintError("Failed to save credentials: %v", err)
			return err
		}
	}

	output.PrintSuccess("Login successful")
	if tok.IsAdmin() {
		output.PrintInfo("Logged in as %s (ADMIN)", output.Bold.Sprint(username))
	} else {
		output.PrintInfo("Logged in as %s", output.Bold.Sprint(username))
	}
	return nil
}

// Logout deletes the cached token. Settings are untouched.
func (s *AuthService) Logout() error {
	tok, err := s.app.Tokens.Load()
	if err != nil {
		return err
	}
	if tok == nil {
		output.PrintWarning("Not logged in")
		return nil
	}

	if err := s.app.Coordinator.Logout(); err != nil {
		output.PrintError("Failed to clear token: %v", err)
		return err
	}

	output.PrintSuccess("Logged out")
	return nil
}

// Status prints the cached token state.
func (s *AuthService) Status() error {
	tok, err := s.app.Tokens.Load()
	if err != nil {
		return err
	}

	if output.GetFormat() == output.FormatJSON {
		status := map[string]interface{}{"authenticated": false}
		if tok != nil {
			status["authenticated"] = !tok.IsExpired()
			status["expired"] = tok.IsExpired()
			status["userId"] = tok.UserID
			status["role"] = tok.Role
			status["admin"] = tok.IsAdmin()
			status["canEditTags"] = tok.EffectiveCanEditTags()
			status["expiresAt"] = tok.ExpiresAt
		}
		return output.PrintJSON(status)
	}

	if tok == nil {
		output.PrintWarning("Not logged in")
		return nil
	}
	if tok.IsExpired() {
		output.PrintWarning("Token expired at %s", tok.ExpiresAt.Format("2006-01-02 15:04:05"))
		return nil
	}

	output.PrintSuccess("Authenticated")
	rows := [][]string{
		{"User ID", tok.UserID},
		{"Role", tok.Role},
		{"Admin", fmt.Sprintf("%v", tok.IsAdmin())},
		{"Can edit tags", fmt.Sprintf("%v", tok.EffectiveCanEditTags())},
		{"Expires", tok.ExpiresAt.Format("2006-01-02 15:04:05")},
	}
	output.PrintTable([]string{"Field", "Value"}, rows)
	return nil
}
