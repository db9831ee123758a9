package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/leadgrid/internal/entity"
	"github.com/xavierca1/leadgrid/internal/infra/queue"
)

// ReminderDigestUseCase builds the daily follow-up digest: run the rollover
// sweep so slipped follow-ups surface too, collect everything due today,
// group by telecaller and publish one payload for the mail worker.
type ReminderDigestUseCase struct {
	Store entity.LeadStoreInterface
	Queue queue.QueueProducerInterface
	Now   func() time.Time
}

func NewReminderDigestUseCase(store entity.LeadStoreInterface, producer queue.QueueProducerInterface) *ReminderDigestUseCase {
	return &ReminderDigestUseCase{Store: store, Queue: producer, Now: time.Now}
}

func (uc *ReminderDigestUseCase) Execute(ctx context.Context) (int, error) {
	rolled, err := uc.Store.SyncOverdueReminders(ctx, uc.Now())
	if err != nil {
		return 0, err
	}

	leads, err := uc.Store.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	today := uc.Now().Format("2006-01-02")

	// Group by telecaller, preserving sheet order inside each group.
	order := []string{}
	groups := map[string][]queue.DigestLead{}
	total := 0
	for _, lead := range leads {
		if lead.Archived || lead.ReminderDate != today {
			continue
		}
		caller := lead.Telecaller
		if caller == "" {
			caller = "Unassigned"
		}
		if _, ok := groups[caller]; !ok {
			order = append(order, caller)
		}
		groups[caller] = append(groups[caller], queue.DigestLead{
			ID:     lead.ID,
			Name:   lead.Name,
			Phone:  lead.Phone,
			City:   lead.City,
			Status: lead.CallStatus,
			Remark: lead.ReminderRemark,
		})
		total++
	}

	if total == 0 {
		log.Printf("📭 No follow-ups due %s, skipping digest", today)
		return 0, nil
	}

	payload := queue.ReminderDigestPayload{
		Date:     today,
		Total:    total,
		RolledIn: rolled,
	}
	for _, caller := range order {
		payload.Sections = append(payload.Sections, queue.TelecallerDigest{
			Telecaller: caller,
			Leads:      groups[caller],
		})
	}

	if err := uc.Queue.PublishReminderDigest(ctx, payload); err != nil {
		return 0, err
	}

	log.Printf("🚀 Digest published: %d leads due %s across %d telecallers", total, today, len(payload.Sections))
	return total, nil
}
