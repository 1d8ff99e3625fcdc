package attendance

import (
	"sync"
	"time"

	"github.com/followme/attendance-cli/pkg/api"
	"github.com/followme/attendance-cli/pkg/logger"
	"github.com/followme/attendance-cli/pkg/settings"
	"github.com/followme/attendance-cli/pkg/token"
)

// gateway is the slice of the API surface the coordinator submits through.
type gateway interface {
	EnsureAuthenticated(s *settings.Settings) (*token.Token, error)
	SubmitAttendance(baseURL, mainRoute string, entries []api.WireEntry) ([]api.ResponseItem, error)
}

// Coordinator owns the in-memory mirror of the entry queue and is the only
// writer of entry status transitions. Mutations are serialized by a mutex;
// network calls run outside it so a foreground AddEntry never blocks on a
// slow submission.
type Coordinator struct {
	mu      sync.Mutex
	entries []Entry

	store    *EntryStore
	settings *settings.Store
	tokens   *token.Cache
	gw       gateway

	authenticated bool
	onChange      func()
	now           func() time.Time
}

// NewCoordinator loads the persisted queue and derives the initial
// authentication state from the token cache.
func NewCoordinator(entryStore *EntryStore, settingsStore *settings.Store, tokens *token.Cache, gw gateway) (*Coordinator, error) {
	entries, err := entryStore.Load()
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		entries:  entries,
		store:    entryStore,
		settings: settingsStore,
		tokens:   tokens,
		gw:       gw,
		now:      time.Now,
	}

	if tok, err := tokens.Load(); err == nil && tok != nil && !tok.IsExpired() {
		c.authenticated = true
	}
	return c, nil
}

// SetOnChange registers a hook invoked after every persisted mutation.
func (c *Coordinator) SetOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// notify invokes the change hook. Never called with c.mu held: the hook is
// free to read coordinator state, so running it under the lock would
// deadlock a subscriber that does.
func (c *Coordinator) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Entries returns a snapshot of the queue, most recent first.
func (c *Coordinator) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// snapshot deep-copies the queue. Callers own the result outright: the
// data maps are duplicated so mutating a snapshot can never reach back
// into coordinator state. Callers hold the lock.
func (c *Coordinator) snapshot() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = copyEntry(e)
	}
	return out
}

func copyEntry(e Entry) Entry {
	data := make(map[string]string, len(e.Data))
	for k, v := range e.Data {
		data[k] = v
	}
	e.Data = data
	return e
}

// AddEntry queues a new Pending entry at the head of the list and persists.
// An empty category falls back to the default.
func (c *Coordinator) AddEntry(data map[string]string, category string) error {
	if category == "" {
		category = settings.DefaultCategory
	}

	entry := Entry{
		Data:      data,
		Timestamp: FormatTimestamp(c.now()),
		Category:  category,
		Status:    StatusPending,
	}

	c.mu.Lock()
	c.entries = append([]Entry{entry}, c.entries...)
	err := c.store.Save(c.entries)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	logger.Debug("Entry queued", "name", entry.Name(), "category", entry.Category)
	c.notify()
	return nil
}

// DeleteSelected removes all selected entries and persists.
func (c *Coordinator) DeleteSelected() error {
	c.mu.Lock()
	kept := c.entries[:0]
	for _, e := range c.entries {
		if !e.IsSelected {
			kept = append(kept, e)
		}
	}
	c.entries = kept
	err := c.store.Save(c.entries)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// DeleteAll empties the queue and persists.
func (c *Coordinator) DeleteAll() error {
	c.mu.Lock()
	c.entries = []Entry{}
	err := c.store.Clear()
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// ToggleSelection flips the selection flag at index. Out-of-range indexes
// are ignored. Selection is ephemeral UI state and is not persisted here.
func (c *Coordinator) ToggleSelection(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index >= 0 && index < len(c.entries) {
		c.entries[index].IsSelected = !c.entries[index].IsSelected
	}
}

// SelectAll sets every entry's selection flag.
func (c *Coordinator) SelectAll(selected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		c.entries[i].IsSelected = selected
	}
}

// FilterByCategory returns the entries in the given category.
func (c *Coordinator) FilterByCategory(category string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Entry
	for _, e := range c.entries {
		if e.Category == category {
			out = append(out, copyEntry(e))
		}
	}
	return out
}

// PendingOrFailed returns the submission candidate set.
func (c *Coordinator) PendingOrFailed() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Entry
	for _, e := range c.entries {
		if e.IsCandidate() {
			out = append(out, copyEntry(e))
		}
	}
	return out
}

// IsAuthenticated reports the last observed authentication state.
func (c *Coordinator) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// Logout clears the cached token. Settings and entries are untouched.
func (c *Coordinator) Logout() error {
	if err := c.tokens.Clear(); err != nil {
		return err
	}
	c.mu.Lock()
	c.authenticated = false
	c.mu.Unlock()
	return nil
}

// EnsureAuthenticated runs the gateway's auth check and tracks the result.
func (c *Coordinator) EnsureAuthenticated() (*token.Token, error) {
	cfg, err := c.settings.Load()
	if err != nil {
		return nil, err
	}

	tok, err := c.gw.EnsureAuthenticated(cfg)

	c.mu.Lock()
	c.authenticated = err == nil
	c.mu.Unlock()
	return tok, err
}

// SubmitPending submits the candidate set and reconciles statuses from the
// server response. The returned count is the number of entries attempted,
// not the number the server confirmed.
func (c *Coordinator) SubmitPending() (int, error) {
	candidates := c.PendingOrFailed()
	if len(candidates) == 0 {
		return 0, nil
	}

	cfg, err := c.settings.Load()
	if err != nil {
		return 0, err
	}

	if _, err := c.EnsureAuthenticated(); err != nil {
		// Pre-flight auth failure leaves entry state untouched
		return 0, api.NewError("not authenticated")
	}

	var userID *string
	if tok, err := c.tokens.Load(); err == nil && tok != nil && tok.UserID != "" {
		userID = &tok.UserID
	}

	wire := make([]api.WireEntry, len(candidates))
	for i, e := range candidates {
		wire[i] = api.WireEntry{
			Name:     e.Name(),
			TS:       e.Timestamp,
			Category: e.Category,
			UserID:   userID,
		}
	}

	items, err := c.gw.SubmitAttendance(cfg.APIBaseURL, cfg.MainRoute, wire)
	if err != nil {
		logger.Warn("Submission failed", "entries", len(candidates), "err", err)
		if err := c.markFailed(candidates); err != nil {
			return 0, err
		}
		return 0, err
	}

	if err := c.reconcile(candidates, items); err != nil {
		return 0, err
	}
	logger.Info("Submission complete", "attempted", len(candidates))
	return len(candidates), nil
}

// reconcile maps server response items back onto the submitted entries.
// Each entry is located by its (timestamp, category) identity, first match
// only. A response item matches an entry on phone or name; only an explicit
// UNMATCHED marker downgrades the status; an entry with no response item
// at all is treated as silently accepted.
func (c *Coordinator) reconcile(submitted []Entry, items []api.ResponseItem) error {
	c.mu.Lock()

	submittedAt := FormatTimestamp(c.now())

	for i := range submitted {
		idx := c.indexOf(&submitted[i])
		if idx == -1 {
			continue
		}

		status := StatusSubmitted
		for _, item := range items {
			if item.Phone == submitted[i].Phone() || item.Name == submitted[i].Name() {
				if item.Name == api.UnmatchedMarker {
					status = StatusUnmatched
				}
				break
			}
		}

		c.entries[idx].Status = status
		c.entries[idx].SubmittedAt = submittedAt
	}

	err := c.store.Save(c.entries)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// markFailed marks every entry in the batch Failed and persists. Marking an
// already-Failed entry again is a harmless no-op, which keeps the operation
// safe to apply twice after a stuck-submission timeout.
func (c *Coordinator) markFailed(batch []Entry) error {
	c.mu.Lock()
	for i := range batch {
		if idx := c.indexOf(&batch[i]); idx != -1 {
			c.entries[idx].Status = StatusFailed
		}
	}
	err := c.store.Save(c.entries)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// indexOf locates an entry in the list by identity. Callers hold the lock.
func (c *Coordinator) indexOf(e *Entry) int {
	for i := range c.entries {
		if c.entries[i].sameIdentity(e) {
			return i
		}
	}
	return -1
}
