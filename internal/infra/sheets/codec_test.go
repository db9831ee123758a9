package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/leadgrid/internal/entity"
)

func fullRow() []string {
	return []string{
		"Cafe Aroma",               // A Lead Name
		"+91 98765 43210",          // B Phone Number
		"Priya",                    // C Telecaller
		"Pune",                     // D Business / City
		"2025-06-01T10:00:00Z",     // E Last Call Date
		"Connected",                // F Call Status
		"Asked for a callback",     // G Outcome
		"2025-06-15",               // H Next Follow-up Date
		"2",                        // I Attempt Count
		"Ring after 5pm",           // J Notes
		"ChIJabc123",               // K Place ID
		"Cafe",                     // L Category
		"https://cafearoma.in",     // M Website
		"working",                  // N Website Status
		"https://maps.google/x",    // O Google Maps Link
		"2025-05-20",               // P Retrieved Date
		"TRUE",                     // Q Highlighted
		`[{"date":"2025-05-21T09:00:00Z","note":"first call"},{"date":"2025-06-01T10:00:00Z","note":"callback"}]`, // R
		"@cafearoma", // S Instagram
		"#ffe0b2",    // T Color
		"FALSE",      // U Archived
	}
}

func TestDecodeRowFullRow(t *testing.T) {
	lead := DecodeRow(Schema, fullRow(), 0)

	assert.Equal(t, "ChIJabc123", lead.ID)
	assert.Equal(t, "Cafe Aroma", lead.Name)
	assert.Equal(t, "Pune", lead.City)
	assert.Equal(t, "Asked for a callback", lead.Remarks)
	assert.Equal(t, "2025-06-15", lead.ReminderDate)
	assert.Equal(t, "Ring after 5pm", lead.ReminderRemark)
	assert.Equal(t, "2025-06-01T10:00:00Z", lead.LastUpdated)
	assert.Equal(t, 2, lead.AttemptCount)
	assert.Len(t, lead.CallHistory, 2)
	assert.Equal(t, "first call", lead.CallHistory[0].Note)
	assert.True(t, lead.Highlighted)
	assert.False(t, lead.Archived)
}

func TestDecodeRowHeaderLookupByName(t *testing.T) {
	// Reordered and loosely formatted headers still project onto the
	// same fields.
	headers := []string{"Business/City", "Lead Name", "Place-ID"}
	row := []string{"Nagpur", "Studio Verde", "ChIJxyz"}

	lead := DecodeRow(headers, row, 4)

	assert.Equal(t, "Studio Verde", lead.Name)
	assert.Equal(t, "Nagpur", lead.City)
	assert.Equal(t, "ChIJxyz", lead.ID)
}

func TestDecodeRowFallbackID(t *testing.T) {
	headers := []string{"Lead Name", "Place ID"}

	lead := DecodeRow(headers, []string{"Joe's Pizza & Grill", ""}, 7)
	assert.Equal(t, "manual-joe-s-pizza-grill-7", lead.ID)

	blank := DecodeRow(headers, []string{"", ""}, 3)
	assert.Equal(t, "manual-3", blank.ID)
}

func TestDecodeRowDefaults(t *testing.T) {
	lead := DecodeRow([]string{"Lead Name"}, []string{"Bare Lead"}, 0)

	assert.Equal(t, "General", lead.Category)
	assert.NotEmpty(t, lead.MapsLink)
	assert.Contains(t, lead.MapsLink, "Bare+Lead")
	assert.Equal(t, 0, lead.AttemptCount)
	assert.NotNil(t, lead.CallHistory)
	assert.Empty(t, lead.CallHistory)
}

func TestDecodeRowShortRow(t *testing.T) {
	// Trailing empty cells are trimmed by the API; decode must not panic.
	lead := DecodeRow(Schema, []string{"Short Row", "12345"}, 1)

	assert.Equal(t, "Short Row", lead.Name)
	assert.Equal(t, "12345", lead.Phone)
	assert.Empty(t, lead.Telecaller)
}

func TestDecodeRowMalformedCellsDegrade(t *testing.T) {
	headers := []string{"Lead Name", "Attempt Count", "Call History"}
	lead := DecodeRow(headers, []string{"Broken", "many", "{not-json"}, 0)

	assert.Equal(t, 0, lead.AttemptCount)
	assert.Empty(t, lead.CallHistory)
}

func TestEncodePatchOnlyTouchedColumns(t *testing.T) {
	remarks := "Will confirm tomorrow"
	highlighted := true
	patch := entity.LeadPatch{Remarks: &remarks, Highlighted: &highlighted}

	writes, err := EncodePatch(patch)

	assert.NoError(t, err)
	assert.Len(t, writes, 2)
	assert.Contains(t, writes, CellWrite{Column: "G", Value: "Will confirm tomorrow"})
	assert.Contains(t, writes, CellWrite{Column: "Q", Value: "TRUE"})
}

func TestEncodePatchEmpty(t *testing.T) {
	writes, err := EncodePatch(entity.LeadPatch{})

	assert.NoError(t, err)
	assert.Empty(t, writes)
}

func TestEncodePatchCallHistoryRecomputesAttempts(t *testing.T) {
	history := `[{"date":"2025-06-01T10:00:00Z","note":"a"},{"date":"2025-06-02T10:00:00Z","note":"b"},{"date":"2025-06-03T10:00:00Z","note":"c"}]`
	patch := entity.LeadPatch{CallHistory: &history}

	writes, err := EncodePatch(patch)

	assert.NoError(t, err)
	assert.Contains(t, writes, CellWrite{Column: "R", Value: history})
	assert.Contains(t, writes, CellWrite{Column: "I", Value: "3"})
}

func TestEncodePatchRejectsInvalidHistory(t *testing.T) {
	bad := `{"not":"an array"`
	patch := entity.LeadPatch{CallHistory: &bad}

	_, err := EncodePatch(patch)

	assert.Error(t, err)
}

func TestEncodeAppendRowRoundTrip(t *testing.T) {
	lead := entity.Lead{
		ID:         "manual-42",
		Name:       "New Bakery",
		Phone:      "555-0101",
		City:       "Indore",
		Category:   "Bakery",
		Telecaller: "Ravi",
	}

	row := EncodeAppendRow(lead, "2025-06-10T08:00:00Z")

	assert.Len(t, row, len(Schema))
	assert.Equal(t, "New Bakery", row[0])
	assert.Equal(t, "2025-06-10T08:00:00Z", row[4])
	assert.Equal(t, entity.StatusNotContacted, row[5])
	assert.Equal(t, "0", row[8])
	assert.Equal(t, "manual-42", row[10])
	assert.Equal(t, "[]", row[17])
	assert.Equal(t, "FALSE", row[20])

	// A written row decodes back to the same lead.
	strs := make([]string, len(row))
	for i, v := range row {
		strs[i] = v.(string)
	}
	decoded := DecodeRow(Schema, strs, 0)
	assert.Equal(t, lead.ID, decoded.ID)
	assert.Equal(t, lead.Name, decoded.Name)
	assert.Equal(t, entity.StatusNotContacted, decoded.CallStatus)
}
