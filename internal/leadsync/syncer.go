package leadsync

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/xavierca1/leadgrid/internal/entity"
)

// Status is the per-record write indicator, for UI feedback only.
type Status int

const (
	StatusIdle Status = iota
	StatusScheduled
	StatusWriting
	StatusWritten
)

const DefaultDebounce = time.Second

// Syncer keeps a local lead list consistent with the gateway while hiding
// network latency. Every edit is applied to the local list immediately;
// a failed write is rolled back by re-fetching server truth — that refetch
// is the only rollback mechanism.
//
// Per record: Idle -> Scheduled (debounce armed) -> Writing -> Idle/Written.
// Re-arming a scheduled write replaces its timer (coalescing); a write
// already in flight is never cancelled, a newer edit just schedules the next
// one and the server keeps last-write-wins.
type Syncer struct {
	api      LeadAPI
	debounce time.Duration

	// OnChange, when set, is called after every local list mutation.
	OnChange func()

	mu      sync.Mutex
	leads   []entity.Lead
	pending map[string]*pendingWrite
	status  map[string]Status
}

type pendingWrite struct {
	timer  *time.Timer
	fields map[string]interface{}
}

func NewSyncer(api LeadAPI, debounce time.Duration) *Syncer {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Syncer{
		api:      api,
		debounce: debounce,
		pending:  make(map[string]*pendingWrite),
		status:   make(map[string]Status),
	}
}

// Refresh replaces the local list with server truth.
func (s *Syncer) Refresh(ctx context.Context) error {
	leads, err := s.api.FetchLeads(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.leads = leads
	s.mu.Unlock()

	s.notify()
	return nil
}

// Leads returns a copy of the local list, in server order.
func (s *Syncer) Leads() []entity.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

// Lead returns the local view of one record.
func (s *Syncer) Lead(id string) (entity.Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.leads {
		if l.ID == id {
			return l, true
		}
	}
	return entity.Lead{}, false
}

// Status reports the write indicator for one record.
func (s *Syncer) Status(id string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status[id]
}

// Update applies an edit optimistically and writes it out immediately.
// On failure the local list is replaced by a re-fetch before returning.
func (s *Syncer) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	s.applyLocal(id, fields)
	s.mu.Unlock()
	s.notify()

	return s.dispatch(ctx, id, fields)
}

// UpdateDebounced applies an edit optimistically and schedules the network
// write after the idle window. Another edit inside the window cancels the
// old timer, merges the fields and re-arms — rapid keystrokes coalesce into
// one write carrying the latest values.
func (s *Syncer) UpdateDebounced(ctx context.Context, id string, fields map[string]interface{}) {
	s.mu.Lock()
	s.applyLocal(id, fields)

	pw, ok := s.pending[id]
	if ok {
		pw.timer.Stop()
		for k, v := range fields {
			pw.fields[k] = v
		}
	} else {
		merged := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			merged[k] = v
		}
		pw = &pendingWrite{fields: merged}
		s.pending[id] = pw
	}

	pw.timer = time.AfterFunc(s.debounce, func() {
		s.Flush(ctx, id)
	})
	s.status[id] = StatusScheduled
	s.mu.Unlock()

	s.notify()
}

// Flush sends any pending debounced write immediately, bypassing the idle
// window. A no-op when nothing is scheduled.
func (s *Syncer) Flush(ctx context.Context, id string) error {
	s.mu.Lock()
	pw, ok := s.pending[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	pw.timer.Stop()
	delete(s.pending, id)
	fields := pw.fields
	s.mu.Unlock()

	return s.dispatch(ctx, id, fields)
}

// AppendNote appends one engagement-log entry and mirrors it into the
// reminder remark. Always written immediately, never debounced: a history
// note is a discrete, infrequent, high-value action.
func (s *Syncer) AppendNote(ctx context.Context, id, note string) error {
	s.mu.Lock()
	var history []entity.CallEntry
	for _, l := range s.leads {
		if l.ID == id {
			history = append(history, l.CallHistory...)
			break
		}
	}
	history = append(history, entity.CallEntry{
		Date: time.Now().UTC().Format(time.RFC3339),
		Note: note,
	})
	historyJSON, _ := json.Marshal(history)

	fields := map[string]interface{}{
		"callHistory":    string(historyJSON),
		"reminderRemark": note,
	}
	s.applyLocal(id, fields)
	s.mu.Unlock()
	s.notify()

	return s.dispatch(ctx, id, fields)
}

// dispatch performs the network write. Success keeps the optimistic state;
// failure discards it by re-fetching server truth.
func (s *Syncer) dispatch(ctx context.Context, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	s.status[id] = StatusWriting
	s.mu.Unlock()

	err := s.api.PatchLead(ctx, id, fields)

	if err != nil {
		s.Refresh(ctx) // reconcile; server truth wins
		s.mu.Lock()
		s.status[id] = StatusIdle
		s.mu.Unlock()
		s.notify()
		return err
	}

	s.mu.Lock()
	s.status[id] = StatusWritten
	s.mu.Unlock()
	s.notify()
	return nil
}

// applyLocal mutates the local copy of a lead. Callers hold s.mu.
func (s *Syncer) applyLocal(id string, fields map[string]interface{}) {
	for i := range s.leads {
		if s.leads[i].ID != id {
			continue
		}
		l := &s.leads[i]
		for key, value := range fields {
			switch key {
			case "name":
				l.Name = asString(value)
			case "phone":
				l.Phone = asString(value)
			case "city":
				l.City = asString(value)
			case "instagram":
				l.Instagram = asString(value)
			case "website":
				l.Website = asString(value)
			case "telecaller":
				l.Telecaller = asString(value)
			case "callStatus":
				l.CallStatus = asString(value)
			case "remarks":
				l.Remarks = asString(value)
			case "reminderDate":
				l.ReminderDate = asString(value)
			case "reminderRemark":
				l.ReminderRemark = asString(value)
			case "color":
				l.Color = asString(value)
			case "highlighted":
				l.Highlighted, _ = value.(bool)
			case "archived":
				l.Archived, _ = value.(bool)
			case "callHistory":
				var history []entity.CallEntry
				if json.Unmarshal([]byte(asString(value)), &history) == nil {
					l.CallHistory = history
					l.AttemptCount = len(history)
				}
			}
		}
		l.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		return
	}
}

func (s *Syncer) notify() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
