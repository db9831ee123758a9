package usecase

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/xavierca1/leadgrid/internal/entity"
	"github.com/xavierca1/leadgrid/internal/infra/integration/places"
)

// Approximate per-call cost in USD. The meter exists to keep a runaway
// scrape from burning the whole Places budget.
const (
	textSearchCost   = 0.04
	placeDetailsCost = 0.025

	maxPerCategory = 30
)

// UsageMeter accumulates the running API spend. One meter lives for the
// process lifetime, owned by main and injected here; it is not module state.
type UsageMeter struct {
	mu    sync.Mutex
	usd   float64
	limit float64
}

func NewUsageMeter(limitUSD float64) *UsageMeter {
	return &UsageMeter{limit: limitUSD}
}

func (m *UsageMeter) Add(cost float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usd += cost
}

func (m *UsageMeter) Total() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usd
}

func (m *UsageMeter) Exceeded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usd >= m.limit
}

// ScrapeLeadsUseCase is discovery ingestion: query the Places API per
// category, keep businesses with recent reviews and no working website, and
// append the survivors to the sheet.
type ScrapeLeadsUseCase struct {
	Store  entity.LeadStoreInterface
	Places PlacesProvider
	Meter  *UsageMeter
	Now    func() time.Time

	// Google requires a short pause before a next_page_token activates.
	PageTokenDelay time.Duration
}

func NewScrapeLeadsUseCase(store entity.LeadStoreInterface, provider PlacesProvider, meter *UsageMeter) *ScrapeLeadsUseCase {
	return &ScrapeLeadsUseCase{
		Store:          store,
		Places:         provider,
		Meter:          meter,
		Now:            time.Now,
		PageTokenDelay: 2 * time.Second,
	}
}

func (uc *ScrapeLeadsUseCase) Execute(ctx context.Context, input ScrapeInput) (*ScrapeOutput, error) {
	if err := ValidateScrapeInput(input); err != nil {
		return nil, err
	}

	existing, err := uc.Store.ExistingIDs(ctx)
	if err != nil {
		return nil, err
	}

	var found []entity.Lead
	for _, category := range input.Categories {
		if uc.Meter.Exceeded() {
			log.Println("⚠️ Usage limit reached. Stopping scraper.")
			break
		}
		leads, err := uc.scrapeCategory(ctx, input.City, category, existing)
		if err != nil {
			// A dead category should not sink the whole run; log and move on.
			log.Printf("❌ Search failed for %q: %v", category, err)
			continue
		}
		found = append(found, leads...)
	}

	if len(found) > 0 {
		if err := uc.Store.Append(ctx, found); err != nil {
			return nil, err
		}
	}

	return &ScrapeOutput{
		Count:   len(found),
		Usage:   uc.Meter.Total(),
		Message: fmt.Sprintf("Scraped %d new leads.", len(found)),
	}, nil
}

func (uc *ScrapeLeadsUseCase) scrapeCategory(ctx context.Context, city, category string, existing map[string]struct{}) ([]entity.Lead, error) {
	query := fmt.Sprintf("%s in %s", category, city)
	log.Printf("🔍 Searching for: %s", query)

	var leads []entity.Lead
	pageToken := ""

	for {
		results, nextToken, err := uc.Places.TextSearch(ctx, query, pageToken)
		if err != nil {
			return leads, err
		}
		uc.Meter.Add(textSearchCost)

		for _, place := range results {
			if uc.Meter.Exceeded() || len(leads) >= maxPerCategory {
				return leads, nil
			}
			if _, seen := existing[place.PlaceID]; seen {
				continue
			}

			lead, ok := uc.qualify(ctx, place.PlaceID, city, category)
			if !ok {
				continue
			}

			leads = append(leads, *lead)
			existing[place.PlaceID] = struct{}{}
		}

		if nextToken == "" || len(leads) >= maxPerCategory || uc.Meter.Exceeded() {
			return leads, nil
		}

		pageToken = nextToken
		select {
		case <-time.After(uc.PageTokenDelay):
		case <-ctx.Done():
			return leads, ctx.Err()
		}
	}
}

// qualify fetches details and applies the lead filters: at least one review
// in the last year, and no working website.
func (uc *ScrapeLeadsUseCase) qualify(ctx context.Context, placeID, city, category string) (*entity.Lead, bool) {
	details, err := uc.Places.Details(ctx, placeID)
	uc.Meter.Add(placeDetailsCost)
	if err != nil || details == nil {
		return nil, false
	}

	if len(details.Reviews) == 0 {
		log.Printf("⏭️ Skipping %s: no reviews found", details.Name)
		return nil, false
	}

	var latest int64
	for _, r := range details.Reviews {
		if r.Time > latest {
			latest = r.Time
		}
	}
	oneYearAgo := uc.Now().Add(-365 * 24 * time.Hour).Unix()
	if latest < oneYearAgo {
		log.Printf("⏭️ Skipping %s: latest review is too old", details.Name)
		return nil, false
	}

	status := uc.Places.ClassifyWebsite(ctx, details.Website)
	if status == places.WebsiteWorking {
		return nil, false
	}

	return &entity.Lead{
		ID:            details.PlaceID,
		Name:          details.Name,
		Phone:         details.FormattedPhoneNumber,
		City:          city,
		Category:      category,
		Website:       details.Website,
		WebsiteStatus: status,
		MapsLink:      details.URL,
		RetrievedDate: uc.Now().UTC().Format(time.RFC3339),
		CallStatus:    entity.StatusNotContacted,
		CallHistory:   []entity.CallEntry{},
	}, true
}

// ExecuteLink ingests a single lead from a shared Google Maps link. Manual
// intent, so the website filter is skipped: the user picked this business.
func (uc *ScrapeLeadsUseCase) ExecuteLink(ctx context.Context, input ScrapeLinkInput) (*ScrapeOutput, error) {
	placeID, err := placeIDFromLink(input.URL)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_LINK", Message: err.Error()}
	}

	existing, err := uc.Store.ExistingIDs(ctx)
	if err != nil {
		return nil, err
	}
	if _, seen := existing[placeID]; seen {
		return &ScrapeOutput{Count: 0, Usage: uc.Meter.Total(), Message: "Lead already exists."}, nil
	}

	details, err := uc.Places.Details(ctx, placeID)
	uc.Meter.Add(placeDetailsCost)
	if err != nil {
		return nil, err
	}

	lead := entity.Lead{
		ID:            details.PlaceID,
		Name:          details.Name,
		Phone:         details.FormattedPhoneNumber,
		Website:       details.Website,
		WebsiteStatus: uc.Places.ClassifyWebsite(ctx, details.Website),
		MapsLink:      details.URL,
		RetrievedDate: uc.Now().UTC().Format(time.RFC3339),
		CallStatus:    entity.StatusNotContacted,
		CallHistory:   []entity.CallEntry{},
	}

	if err := uc.Store.Append(ctx, []entity.Lead{lead}); err != nil {
		return nil, err
	}

	return &ScrapeOutput{Count: 1, Usage: uc.Meter.Total(), Message: fmt.Sprintf("Added %s from link.", details.Name)}, nil
}

func placeIDFromLink(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("not a valid url")
	}
	q := u.Query()
	for _, key := range []string{"place_id", "query_place_id"} {
		if id := q.Get(key); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("no place id found in link")
}
