package sheets

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/xavierca1/leadgrid/internal/entity"
)

const reminderDateLayout = "2006-01-02"

// Store is the only component that talks to the spreadsheet. It performs no
// retries and no backoff: remote failures bubble to the caller unchanged.
type Store struct {
	svc           *sheetsapi.Service
	spreadsheetID string

	// The clock is injectable so tests can pin "today".
	Now func() time.Time

	mu        sync.Mutex
	sheetName string
}

func NewStore(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Store, error) {
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build sheets service: %w", err)
	}
	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		Now:           time.Now,
	}, nil
}

// sheetTitle resolves and caches the first sheet's tab name. Every range in
// this file is addressed against it.
func (s *Store) sheetTitle(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sheetName != "" {
		return s.sheetName, nil
	}

	sp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to fetch spreadsheet metadata: %w", err)
	}
	if len(sp.Sheets) == 0 {
		return "", fmt.Errorf("spreadsheet %s has no sheets", s.spreadsheetID)
	}

	s.sheetName = sp.Sheets[0].Properties.Title
	return s.sheetName, nil
}

// Ping checks reachability for the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.sheetTitle(ctx)
	return err
}

// EnsureSchema compares the actual header row with the canonical schema and
// rewrites it when they differ. Writes assume the canonical column order, so
// this runs once at startup before any traffic.
func (s *Store) EnsureSchema(ctx context.Context) error {
	title, err := s.sheetTitle(ctx)
	if err != nil {
		return err
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, fmt.Sprintf("%s!A1:U1", title)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	var current []string
	if len(resp.Values) > 0 {
		for _, cell := range resp.Values[0] {
			current = append(current, cellString(cell))
		}
	}

	if headersMatch(current) {
		return nil
	}

	row := make([]interface{}, len(Schema))
	for i, h := range Schema {
		row[i] = h
	}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, fmt.Sprintf("%s!A1:U1", title), &sheetsapi.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to rewrite header row: %w", err)
	}

	log.Println("✅ Sheet schema updated to the canonical lead layout")
	return nil
}

func headersMatch(current []string) bool {
	if len(current) != len(Schema) {
		return false
	}
	for i, h := range Schema {
		if current[i] != h {
			return false
		}
	}
	return true
}

// ListAll fetches the full data range and decodes every row, in sheet order.
func (s *Store) ListAll(ctx context.Context) ([]entity.Lead, error) {
	title, err := s.sheetTitle(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, fmt.Sprintf("%s!A:U", title)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read lead rows: %w", err)
	}

	if len(resp.Values) <= 1 {
		return []entity.Lead{}, nil
	}

	headers := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		headers[i] = cellString(cell)
	}

	leads := make([]entity.Lead, 0, len(resp.Values)-1)
	for i, raw := range resp.Values[1:] {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = cellString(cell)
		}
		leads = append(leads, DecodeRow(headers, row, i))
	}

	return leads, nil
}

// findRowByID resolves a lead id to its 1-based sheet row. Only the name and
// Place ID columns are fetched: names are needed because legacy rows without
// a Place ID are identified by the name+position fallback. Linear scan; the
// sheet never grows past a few thousand rows.
func (s *Store) findRowByID(ctx context.Context, id string) (int, error) {
	title, err := s.sheetTitle(ctx)
	if err != nil {
		return 0, err
	}

	resp, err := s.svc.Spreadsheets.Values.BatchGet(s.spreadsheetID).
		Ranges(fmt.Sprintf("%s!A2:A", title), fmt.Sprintf("%s!K2:K", title)).
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to read id columns: %w", err)
	}
	if len(resp.ValueRanges) != 2 {
		return 0, fmt.Errorf("unexpected id column response: got %d ranges", len(resp.ValueRanges))
	}

	names := resp.ValueRanges[0].Values
	placeIDs := resp.ValueRanges[1].Values

	total := len(names)
	if len(placeIDs) > total {
		total = len(placeIDs)
	}

	for i := 0; i < total; i++ {
		rowID := ""
		if i < len(placeIDs) && len(placeIDs[i]) > 0 {
			rowID = cellString(placeIDs[i][0])
		}
		if rowID == "" {
			name := ""
			if i < len(names) && len(names[i]) > 0 {
				name = cellString(names[i][0])
			}
			rowID = FallbackID(name, i)
		}
		if rowID == id {
			return i + 2, nil // row 1 is the header
		}
	}

	return 0, entity.ErrLeadNotFound
}

// Patch resolves the row and issues a single batched write covering only the
// changed columns plus the unconditional Last Call Date stamp. The row
// resolution and the write are not transactional; with human-paced volume
// that race is accepted.
func (s *Store) Patch(ctx context.Context, id string, patch entity.LeadPatch) error {
	writes, err := EncodePatch(patch)
	if err != nil {
		return err
	}

	row, err := s.findRowByID(ctx, id)
	if err != nil {
		return err
	}

	title, err := s.sheetTitle(ctx)
	if err != nil {
		return err
	}

	writes = append(writes, CellWrite{Column: colLastUpdated, Value: s.Now().UTC().Format(time.RFC3339)})

	data := make([]*sheetsapi.ValueRange, 0, len(writes))
	for _, w := range writes {
		data = append(data, &sheetsapi.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", title, w.Column, row),
			Values: [][]interface{}{{w.Value}},
		})
	}

	_, err = s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write lead %s: %w", id, err)
	}

	return nil
}

// Append encodes each lead to a full canonical row and issues one append
// call. Dedup is the caller's problem (the scraper pre-fetches known ids).
func (s *Store) Append(ctx context.Context, leads []entity.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	title, err := s.sheetTitle(ctx)
	if err != nil {
		return err
	}

	now := s.Now().UTC().Format(time.RFC3339)
	rows := make([][]interface{}, 0, len(leads))
	for _, lead := range leads {
		stamp := lead.LastUpdated
		if stamp == "" {
			stamp = now
		}
		rows = append(rows, EncodeAppendRow(lead, stamp))
	}

	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, fmt.Sprintf("%s!A:U", title), &sheetsapi.ValueRange{
		Values: rows,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append %d leads: %w", len(leads), err)
	}

	return nil
}

// SyncOverdueReminders advances every follow-up date strictly before today to
// today, in one batched write, and returns the count touched. Leads without
// a parseable date are skipped, never errored. This makes "today" views
// self-healing: a slipped follow-up resurfaces instead of getting lost in
// the past.
func (s *Store) SyncOverdueReminders(ctx context.Context, today time.Time) (int, error) {
	leads, err := s.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	title, err := s.sheetTitle(ctx)
	if err != nil {
		return 0, err
	}

	todayStr := today.Format(reminderDateLayout)
	todayDate, err := time.Parse(reminderDateLayout, todayStr)
	if err != nil {
		return 0, err
	}

	var data []*sheetsapi.ValueRange
	for i, lead := range leads {
		if lead.ReminderDate == "" {
			continue
		}
		due, err := time.Parse(reminderDateLayout, lead.ReminderDate)
		if err != nil {
			continue // malformed date, treat as absent
		}
		if !due.Before(todayDate) {
			continue
		}
		data = append(data, &sheetsapi.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", title, colReminderDate, i+2),
			Values: [][]interface{}{{todayStr}},
		})
	}

	if len(data) == 0 {
		return 0, nil
	}

	_, err = s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to roll over reminders: %w", err)
	}

	return len(data), nil
}

// ExistingIDs returns the set of known lead ids, for scraper dedup.
func (s *Store) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	leads, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(leads))
	for _, lead := range leads {
		ids[lead.ID] = struct{}{}
	}
	return ids, nil
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
