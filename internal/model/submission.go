package model

// Field limits, counted in Unicode code points.
const (
	MaxNameLength      = 100
	MaxEmailLength     = 254
	MaxMessageLength   = 5000
	MaxUserAgentLength = 200
)

// Unknown is recorded for request metadata the client did not supply.
const Unknown = "unknown"

// Submission is a contact form record. It is written once and never updated;
// the store expires it after the retention period.
type Submission struct {
	// ID is not part of the stored record; the store key carries it.
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"` // ISO-8601, UTC, millisecond precision
	IP        string `json:"ip"`
	Country   string `json:"country"`
	UserAgent string `json:"userAgent"`
}

// SubmissionPage is one listing of the most recent submissions.
type SubmissionPage struct {
	Items []*Submission
	// Total is the length of the index, not the number of records that
	// could still be read.
	Total int
}
