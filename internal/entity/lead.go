package entity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Returned by the store when an id resolves to no sheet row.
var ErrLeadNotFound = errors.New("lead not found")

// Call Status values the UI offers.
const (
	StatusNotContacted = "Not Contacted"
	StatusConnected    = "Connected"
	StatusBusy         = "Busy"
	StatusSwitchOff    = "Switch Off"
	StatusWrongNumber  = "Wrong Number"
	StatusFollowUp     = "Follow Up"
)

// CallEntry is one append-only item of the engagement log. Order is
// chronological and never rewritten.
type CallEntry struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

// Lead is one sheet row.
type Lead struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	Category   string `json:"category"`
	Instagram  string `json:"instagram"`
	Website    string `json:"website"`
	Telecaller string `json:"telecaller"`

	CallStatus     string      `json:"callStatus"`
	Remarks        string      `json:"remarks"`
	ReminderDate   string      `json:"reminderDate"` // YYYY-MM-DD, empty = no follow-up
	ReminderRemark string      `json:"reminderRemark"`
	AttemptCount   int         `json:"attemptCount"`
	CallHistory    []CallEntry `json:"callHistory"`

	Highlighted bool   `json:"highlighted"`
	Color       string `json:"color"`
	Archived    bool   `json:"archived"`

	// Server-stamped on every accepted write. Clients never set it.
	LastUpdated string `json:"lastUpdated"`

	// Filled once at discovery time, display-only afterwards.
	WebsiteStatus string `json:"websiteStatus"`
	MapsLink      string `json:"mapsLink"`
	RetrievedDate string `json:"retrievedDate"`
}

// LeadPatch is a sparse update: nil means "leave the column untouched".
// The field names are the public vocabulary of the PATCH endpoint; anything
// outside it is ignored by the JSON decoder, not errored.
type LeadPatch struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	City           *string `json:"city"`
	Instagram      *string `json:"instagram"`
	Website        *string `json:"website"`
	Telecaller     *string `json:"telecaller"`
	CallStatus     *string `json:"callStatus"`
	Remarks        *string `json:"remarks"`
	ReminderDate   *string `json:"reminderDate"`
	ReminderRemark *string `json:"reminderRemark"`
	CallHistory    *string `json:"callHistory"` // JSON-encoded []CallEntry
	Color          *string `json:"color"`
	Highlighted    *bool   `json:"highlighted"`
	Archived       *bool   `json:"archived"`
}

// IsEmpty reports whether the patch touches no column at all.
func (p LeadPatch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.City == nil && p.Instagram == nil &&
		p.Website == nil && p.Telecaller == nil && p.CallStatus == nil && p.Remarks == nil &&
		p.ReminderDate == nil && p.ReminderRemark == nil && p.CallHistory == nil &&
		p.Color == nil && p.Highlighted == nil && p.Archived == nil
}

// LeadStoreInterface is the only contract allowed to touch the external sheet.
type LeadStoreInterface interface {
	ListAll(ctx context.Context) ([]Lead, error)
	Patch(ctx context.Context, id string, patch LeadPatch) error
	Append(ctx context.Context, leads []Lead) error
	SyncOverdueReminders(ctx context.Context, today time.Time) (int, error)
	ExistingIDs(ctx context.Context) (map[string]struct{}, error)
}

// Factory for manually seeded leads. Discovery ingestion carries a real
// Place ID; manual rows get their own uuid so they never depend on the
// legacy name+position fallback id.
func NewManualLead(name, phone, city, category string) (*Lead, error) {
	lead := &Lead{
		ID:          "manual-" + uuid.New().String(),
		Name:        name,
		Phone:       phone,
		City:        city,
		Category:    category,
		CallStatus:  StatusNotContacted,
		CallHistory: []CallEntry{},
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}

	if lead.Category == "" {
		lead.Category = "General"
	}
	lead.MapsLink = MapsSearchLink(name, city)

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// MapsSearchLink builds the fallback maps URL for rows that never carried one.
func MapsSearchLink(name, city string) string {
	if name == "" {
		return ""
	}
	q := name
	if city != "" {
		q += " " + city
	}
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%s", url.QueryEscape(q))
}
