package sheets

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xavierca1/leadgrid/internal/entity"
)

// Canonical header row. Column order is fixed (A..U); the decode path
// tolerates reordered headers by name lookup, but every write assumes this
// exact layout. EnsureSchema rewrites the header row when it drifts.
var Schema = []string{
	"Lead Name",           // A
	"Phone Number",        // B
	"Telecaller",          // C
	"Business / City",     // D
	"Last Call Date",      // E
	"Call Status",         // F
	"Outcome",             // G
	"Next Follow-up Date", // H
	"Attempt Count",       // I
	"Notes",               // J
	"Place ID",            // K
	"Category",            // L
	"Website",             // M
	"Website Status",      // N
	"Google Maps Link",    // O
	"Retrieved Date",      // P
	"Highlighted",         // Q
	"Call History",        // R
	"Instagram",           // S
	"Color",               // T
	"Archived",            // U
}

// Column letters for the write path, keyed by canonical header.
const (
	colName           = "A"
	colPhone          = "B"
	colTelecaller     = "C"
	colCity           = "D"
	colLastUpdated    = "E"
	colCallStatus     = "F"
	colRemarks        = "G"
	colReminderDate   = "H"
	colAttemptCount   = "I"
	colReminderRemark = "J"
	colPlaceID        = "K"
	colCategory       = "L"
	colWebsite        = "M"
	colWebsiteStatus  = "N"
	colMapsLink       = "O"
	colRetrievedDate  = "P"
	colHighlighted    = "Q"
	colCallHistory    = "R"
	colInstagram      = "S"
	colColor          = "T"
	colArchived       = "U"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// normalizeHeader collapses a raw header cell to its alphanumeric key,
// so "Business / City" and "Business/City" both land on "BusinessCity".
func normalizeHeader(h string) string {
	return nonAlnum.ReplaceAllString(h, "")
}

// FallbackID builds the deterministic identifier for legacy rows that carry
// no Place ID. It can collide when two rows share a slug and the sheet is
// reordered; new rows created by this server always get a real id instead.
func FallbackID(name string, rowIndex int) string {
	slug := strings.ToLower(nonAlnum.ReplaceAllString(name, "-"))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return fmt.Sprintf("manual-%d", rowIndex)
	}
	return fmt.Sprintf("manual-%s-%d", slug, rowIndex)
}

// DecodeRow converts one data row into a Lead. headers is the actual header
// row of the sheet (lookup is by name, not position); rowIndex is the
// zero-based position among data rows, used only for the fallback id.
// Missing cells decode to empty strings; malformed history or counts degrade
// to safe defaults instead of erroring.
func DecodeRow(headers []string, row []string, rowIndex int) entity.Lead {
	cells := make(map[string]string, len(headers))
	for i, h := range headers {
		v := ""
		if i < len(row) {
			v = row[i]
		}
		cells[normalizeHeader(h)] = v
	}

	lead := entity.Lead{
		Name:           cells["LeadName"],
		Phone:          cells["PhoneNumber"],
		Telecaller:     cells["Telecaller"],
		City:           cells["BusinessCity"],
		LastUpdated:    cells["LastCallDate"],
		CallStatus:     cells["CallStatus"],
		Remarks:        cells["Outcome"],
		ReminderDate:   cells["NextFollowupDate"],
		ReminderRemark: cells["Notes"],
		ID:             cells["PlaceID"],
		Category:       cells["Category"],
		Website:        cells["Website"],
		WebsiteStatus:  cells["WebsiteStatus"],
		MapsLink:       cells["GoogleMapsLink"],
		RetrievedDate:  cells["RetrievedDate"],
		Instagram:      cells["Instagram"],
		Color:          cells["Color"],
		Highlighted:    cells["Highlighted"] == "TRUE",
		Archived:       cells["Archived"] == "TRUE",
	}

	if lead.ID == "" {
		lead.ID = FallbackID(lead.Name, rowIndex)
	}
	if lead.Category == "" {
		lead.Category = "General"
	}
	if lead.MapsLink == "" {
		lead.MapsLink = entity.MapsSearchLink(lead.Name, lead.City)
	}

	if n, err := strconv.Atoi(cells["AttemptCount"]); err == nil {
		lead.AttemptCount = n
	}

	lead.CallHistory = decodeHistory(cells["CallHistory"])

	return lead
}

func decodeHistory(raw string) []entity.CallEntry {
	if raw == "" {
		return []entity.CallEntry{}
	}
	var history []entity.CallEntry
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		// Corrupted cell. Treat as empty rather than failing the whole list.
		return []entity.CallEntry{}
	}
	if history == nil {
		history = []entity.CallEntry{}
	}
	return history
}

// CellWrite is one column-addressed value for a batched partial update.
type CellWrite struct {
	Column string
	Value  string
}

// EncodePatch turns a sparse patch into column writes. Untouched fields emit
// nothing; a call-history write also recomputes the Attempt Count column.
func EncodePatch(patch entity.LeadPatch) ([]CellWrite, error) {
	var writes []CellWrite
	add := func(col, val string) {
		writes = append(writes, CellWrite{Column: col, Value: val})
	}

	if patch.Name != nil {
		add(colName, *patch.Name)
	}
	if patch.Phone != nil {
		add(colPhone, *patch.Phone)
	}
	if patch.Telecaller != nil {
		add(colTelecaller, *patch.Telecaller)
	}
	if patch.City != nil {
		add(colCity, *patch.City)
	}
	if patch.CallStatus != nil {
		add(colCallStatus, *patch.CallStatus)
	}
	if patch.Remarks != nil {
		add(colRemarks, *patch.Remarks)
	}
	if patch.ReminderDate != nil {
		add(colReminderDate, *patch.ReminderDate)
	}
	if patch.ReminderRemark != nil {
		add(colReminderRemark, *patch.ReminderRemark)
	}
	if patch.CallHistory != nil {
		var history []entity.CallEntry
		if err := json.Unmarshal([]byte(*patch.CallHistory), &history); err != nil {
			return nil, fmt.Errorf("invalid call history payload: %w", err)
		}
		add(colCallHistory, *patch.CallHistory)
		add(colAttemptCount, strconv.Itoa(len(history)))
	}
	if patch.Website != nil {
		add(colWebsite, *patch.Website)
	}
	if patch.Instagram != nil {
		add(colInstagram, *patch.Instagram)
	}
	if patch.Color != nil {
		add(colColor, *patch.Color)
	}
	if patch.Highlighted != nil {
		add(colHighlighted, boolToken(*patch.Highlighted))
	}
	if patch.Archived != nil {
		add(colArchived, boolToken(*patch.Archived))
	}

	return writes, nil
}

// EncodeAppendRow produces one full canonical row for a newly created lead.
// lastCallDate is the server timestamp for column E.
func EncodeAppendRow(lead entity.Lead, lastCallDate string) []interface{} {
	history := lead.CallHistory
	if history == nil {
		history = []entity.CallEntry{}
	}
	historyJSON, _ := json.Marshal(history)

	status := lead.CallStatus
	if status == "" {
		status = entity.StatusNotContacted
	}

	return []interface{}{
		lead.Name,                    // A
		lead.Phone,                   // B
		lead.Telecaller,              // C
		lead.City,                    // D
		lastCallDate,                 // E
		status,                       // F
		lead.Remarks,                 // G
		lead.ReminderDate,            // H
		strconv.Itoa(len(history)),   // I
		lead.ReminderRemark,          // J
		lead.ID,                      // K
		lead.Category,                // L
		lead.Website,                 // M
		lead.WebsiteStatus,           // N
		lead.MapsLink,                // O
		lead.RetrievedDate,           // P
		boolToken(lead.Highlighted),  // Q
		string(historyJSON),          // R
		lead.Instagram,               // S
		lead.Color,                   // T
		boolToken(lead.Archived),     // U
	}
}

func boolToken(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
