package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/leadgrid/internal/entity"
	"github.com/xavierca1/leadgrid/internal/infra/integration/places"
	"github.com/xavierca1/leadgrid/internal/infra/queue"
)

// MockLeadStore
type MockLeadStore struct {
	mock.Mock
}

func (m *MockLeadStore) ListAll(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadStore) Patch(ctx context.Context, id string, patch entity.LeadPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockLeadStore) Append(ctx context.Context, leads []entity.Lead) error {
	args := m.Called(ctx, leads)
	return args.Error(0)
}

func (m *MockLeadStore) SyncOverdueReminders(ctx context.Context, today time.Time) (int, error) {
	args := m.Called(ctx, today)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadStore) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

// MockPlacesProvider
type MockPlacesProvider struct {
	mock.Mock
}

func (m *MockPlacesProvider) TextSearch(ctx context.Context, query, pageToken string) ([]places.PlaceSummary, string, error) {
	args := m.Called(ctx, query, pageToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]places.PlaceSummary), args.String(1), args.Error(2)
}

func (m *MockPlacesProvider) Details(ctx context.Context, placeID string) (*places.PlaceDetails, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*places.PlaceDetails), args.Error(1)
}

func (m *MockPlacesProvider) ClassifyWebsite(ctx context.Context, siteURL string) string {
	args := m.Called(ctx, siteURL)
	return args.String(0)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishReminderDigest(ctx context.Context, payload queue.ReminderDigestPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
