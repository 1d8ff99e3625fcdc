package service

import (
	"time"

	"github.com/followme/attendance-cli/pkg/api"
	"github.com/followme/attendance-cli/pkg/attendance"
	"github.com/followme/attendance-cli/pkg/config"
	"github.com/followme/attendance-cli/pkg/scheduler"
	"github.com/followme/attendance-cli/pkg/settings"
	"github.com/followme/attendance-cli/pkg/store"
	"github.com/followme/attendance-cli/pkg/token"
)

// App is the composition root's product: every component is constructed
// once and handed to consumers explicitly. No package-level state.
type App struct {
	Settings    *settings.Store
	Tokens      *token.Cache
	Gateway     *api.Gateway
	Entries     *attendance.EntryStore
	Coordinator *attendance.Coordinator
	Scheduler   *scheduler.Scheduler
}

// NewApp wires the application from the initialized configuration.
func NewApp() (*App, error) {
	secure := store.NewSecure(config.GetCredentialsPath())
	plain := store.NewPlain(config.GetEntriesPath())

	settingsStore := settings.NewStore(secure)
	tokens := token.NewCache(secure)
	gateway := api.NewGateway(tokens, time.Duration(config.GetInt("api.timeout"))*time.Second)
	entryStore := attendance.NewEntryStore(plain, settingsStore)

	coordinator, err := attendance.NewCoordinator(entryStore, settingsStore, tokens, gateway)
	if err != nil {
		return nil, err
	}

	return &App{
		Settings:    settingsStore,
		Tokens:      tokens,
		Gateway:     gateway,
		Entries:     entryStore,
		Coordinator: coordinator,
		Scheduler:   scheduler.New(coordinator, tokens),
	}, nil
}
