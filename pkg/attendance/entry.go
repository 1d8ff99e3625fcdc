package attendance

import "time"

// Status is an entry's submission lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusFailed    Status = "failed"
	StatusUnmatched Status = "unmatched"
)

// TimestampFormat is the wire timestamp layout: ISO-8601 UTC with
// millisecond precision and a literal Z suffix.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders an instant in the wire timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// Entry is one queued attendance record. The (Timestamp, Category) pair is
// its identity for in-place status updates.
type Entry struct {
	Data        map[string]string `json:"data"`
	Timestamp   string            `json:"timestamp"`
	Category    string            `json:"category"`
	IsSelected  bool              `json:"isSelected"`
	Status      Status            `json:"status"`
	SubmittedAt string            `json:"submittedAt,omitempty"`
}

// Name returns the identity name from the entry data.
func (e *Entry) Name() string {
	return e.Data["name"]
}

// Phone returns the phone number from the entry data, if any.
func (e *Entry) Phone() string {
	return e.Data["phone"]
}

// IsCandidate reports whether the entry is eligible for (re)submission.
// Submitted and Unmatched are terminal and never resubmitted automatically.
func (e *Entry) IsCandidate() bool {
	return e.Status == StatusPending || e.Status == StatusFailed
}

// sameIdentity reports whether two entries share the (timestamp, category)
// identity key.
func (e *Entry) sameIdentity(other *Entry) bool {
	return e.Timestamp == other.Timestamp && e.Category == other.Category
}
