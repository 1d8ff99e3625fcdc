package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/followme/attendance-cli/pkg/attendance"
	"github.com/followme/attendance-cli/pkg/output"
	"github.com/followme/attendance-cli/pkg/scheduler"
	"github.com/followme/attendance-cli/pkg/tag"
)

// AttendanceService drives the entry queue from the terminal.
type AttendanceService struct {
	app *App
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(app *App) *AttendanceService {
	return &AttendanceService{app: app}
}

// List prints the queue, optionally filtered by category.
func (s *AttendanceService) List(category string) error {
	var entries []attendance.Entry
	if category != "" {
		entries = s.app.Coordinator.FilterByCategory(category)
	} else {
		entries = s.app.Coordinator.Entries()
	}

	if output.GetFormat() == output.FormatJSON {
		return output.PrintJSON(entries)
	}

	if len(entries) == 0 {
		output.PrintInfo("No entries")
		return nil
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			fmt.Sprintf("%d", i),
			e.Name(),
			e.Phone(),
			e.Category,
			e.Timestamp,
			string(e.Status),
		}
	}
	output.PrintTable([]string{"#", "Name", "Phone", "Category", "Timestamp", "Status"}, rows)
	return nil
}

// Add queues a manually entered attendance record.
func (s *AttendanceService) Add(name, phone, category string, extra map[string]string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if err := s.validateCategory(&category); err != nil {
		return err
	}

	data := map[string]string{"name": name}
	if phone != "" {
		data["phone"] = phone
	}
	for k, v := range extra {
		data[k] = v
	}

	if err := s.app.Coordinator.AddEntry(data, category); err != nil {
		return err
	}
	output.PrintSuccess("Queued %s (%s)", name, category)
	return nil
}

// AddFromTagFile decodes a tag payload file and queues it.
func (s *AttendanceService) AddFromTagFile(path, category string) error {
	if err := s.validateCategory(&category); err != nil {
		return err
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	d, err := tag.Decode(string(payload))
	if err != nil {
		return err
	}

	if err := s.app.Coordinator.AddEntry(d.EntryData(), category); err != nil {
		return err
	}
	output.PrintSuccess("Queued %s (%s)", d.Fields["name"], category)
	return nil
}

func (s *AttendanceService) validateCategory(category *string) error {
	cfg, err := s.app.Settings.Load()
	if err != nil {
		return err
	}
	if *category == "" {
		return nil // Coordinator applies the default
	}
	if !cfg.HasCategory(*category) {
		return fmt.Errorf("unknown category %q", *category)
	}
	return nil
}

// Delete removes entries by index, or the whole queue with all.
func (s *AttendanceService) Delete(indexes []int, all bool) error {
	if all {
		if err := s.app.Coordinator.DeleteAll(); err != nil {
			return err
		}
		output.PrintSuccess("Queue cleared")
		return nil
	}

	if len(indexes) == 0 {
		return fmt.Errorf("no entries selected")
	}

	// Repeated --index values must not toggle an entry back off, and a
	// stale index is an error rather than a silent miss.
	total := len(s.app.Coordinator.Entries())
	unique := make(map[int]struct{}, len(indexes))
	for _, i := range indexes {
		if i < 0 || i >= total {
			return fmt.Errorf("index %d out of range", i)
		}
		unique[i] = struct{}{}
	}

	s.app.Coordinator.SelectAll(false)
	for i := range unique {
		s.app.Coordinator.ToggleSelection(i)
	}
	if err := s.app.Coordinator.DeleteSelected(); err != nil {
		return err
	}
	output.PrintSuccess("Deleted %d entries", len(unique))
	return nil
}

// Submit runs one explicit submission. Unlike the background scheduler,
// this is a user-initiated action, so the failure message is shown.
func (s *AttendanceService) Submit() error {
	candidates := s.app.Coordinator.PendingOrFailed()
	if len(candidates) == 0 {
		output.PrintInfo("Nothing to submit")
		return nil
	}

	output.PrintInfo("Submitting %d entries...", len(candidates))
	count, err := s.app.Coordinator.SubmitPending()
	if err != nil {
		output.PrintError("Submission failed: %v", err)
		return err
	}

	unmatched := 0
	for _, e := range s.app.Coordinator.Entries() {
		if e.Status == attendance.StatusUnmatched {
			unmatched++
		}
	}

	output.PrintSuccess("Submitted %d entries", count)
	if unmatched > 0 {
		output.PrintWarning("%d entries were not matched to a known identity", unmatched)
	}
	return nil
}

// Watch runs the background scheduler in the foreground until the context
// is cancelled: periodic ticks plus a connectivity monitor feeding edge
// events into it.
func (s *AttendanceService) Watch(ctx context.Context) error {
	cfg, err := s.app.Settings.Load()
	if err != nil {
		return err
	}
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("no server configured")
	}

	probe := scheduler.HTTPProbe(func() string {
		c, err := s.app.Settings.Load()
		if err != nil {
			return ""
		}
		return c.APIBaseURL
	}, 5*time.Second)
	monitor := scheduler.NewMonitor(probe, 15*time.Second, s.app.Scheduler)

	output.PrintInfo("Watching queue, submitting every %s. Press Ctrl+C to stop.", scheduler.Period)

	go monitor.Run(ctx)
	s.app.Scheduler.Run(ctx)
	return nil
}
