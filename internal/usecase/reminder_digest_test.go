package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/leadgrid/internal/entity"
	"github.com/xavierca1/leadgrid/internal/infra/queue"
)

func TestReminderDigestGroupsByTelecaller(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	producer := new(MockQueueProducer)

	store.On("SyncOverdueReminders", ctx, pinnedClock()).Return(1, nil)
	store.On("ListAll", ctx).Return([]entity.Lead{
		{ID: "a", Name: "Cafe Aroma", Telecaller: "Priya", ReminderDate: "2025-06-10"},
		{ID: "b", Name: "Iron Gym", Telecaller: "", ReminderDate: "2025-06-10"},
		{ID: "c", Name: "Studio Verde", Telecaller: "Priya", ReminderDate: "2025-06-10"},
		{ID: "d", Name: "Tomorrow Cafe", Telecaller: "Priya", ReminderDate: "2025-06-11"},
		{ID: "e", Name: "Gone Bakery", Telecaller: "Ravi", ReminderDate: "2025-06-10", Archived: true},
	}, nil)

	var published queue.ReminderDigestPayload
	producer.On("PublishReminderDigest", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			published = args.Get(1).(queue.ReminderDigestPayload)
		}).Return(nil)

	uc := NewReminderDigestUseCase(store, producer)
	uc.Now = pinnedClock

	total, err := uc.Execute(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "2025-06-10", published.Date)
	assert.Equal(t, 1, published.RolledIn)
	assert.Len(t, published.Sections, 2)
	assert.Equal(t, "Priya", published.Sections[0].Telecaller)
	assert.Len(t, published.Sections[0].Leads, 2)
	assert.Equal(t, "Unassigned", published.Sections[1].Telecaller)
	producer.AssertExpectations(t)
}

func TestReminderDigestSkipsPublishWhenNothingDue(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	producer := new(MockQueueProducer)

	store.On("SyncOverdueReminders", ctx, mock.Anything).Return(0, nil)
	store.On("ListAll", ctx).Return([]entity.Lead{
		{ID: "a", ReminderDate: "2025-07-01"},
	}, nil)

	uc := NewReminderDigestUseCase(store, producer)
	uc.Now = pinnedClock

	total, err := uc.Execute(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, total)
	producer.AssertNotCalled(t, "PublishReminderDigest")
}

func TestReminderDigestSweepFailureAborts(t *testing.T) {
	ctx := context.Background()
	store := new(MockLeadStore)
	producer := new(MockQueueProducer)

	store.On("SyncOverdueReminders", ctx, mock.Anything).Return(0, assert.AnError)

	uc := NewReminderDigestUseCase(store, producer)
	uc.Now = pinnedClock

	_, err := uc.Execute(ctx)

	assert.Error(t, err)
	store.AssertNotCalled(t, "ListAll")
}
