package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/leadgrid/internal/entity"
)

// ListLeadsUseCase runs the overdue-reminder rollover and returns the full
// decoded list. The sweep goes first so the list already shows the advanced
// dates; a sweep failure is logged but never blocks the read.
type ListLeadsUseCase struct {
	Store entity.LeadStoreInterface
	Now   func() time.Time
}

func NewListLeadsUseCase(store entity.LeadStoreInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{Store: store, Now: time.Now}
}

func (uc *ListLeadsUseCase) Execute(ctx context.Context) ([]entity.Lead, int, error) {
	rolled, err := uc.Store.SyncOverdueReminders(ctx, uc.Now())
	if err != nil {
		log.Printf("⚠️ Reminder rollover failed, serving list anyway: %v", err)
	} else if rolled > 0 {
		log.Printf("🔄 Rolled %d overdue reminders forward to today", rolled)
	}

	leads, err := uc.Store.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	return leads, rolled, nil
}
