package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/leadgrid/internal/entity"
)

// CreateLeadUseCase seeds a lead by hand, outside discovery ingestion.
type CreateLeadUseCase struct {
	Store entity.LeadStoreInterface
}

func NewCreateLeadUseCase(store entity.LeadStoreInterface) *CreateLeadUseCase {
	return &CreateLeadUseCase{Store: store}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*CreateLeadOutput, error) {
	lead, err := entity.NewManualLead(input.Name, input.Phone, input.City, input.Category)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_LEAD", Message: err.Error()}
	}

	if err := uc.Store.Append(ctx, []entity.Lead{*lead}); err != nil {
		return nil, err
	}

	log.Printf("✅ Lead created manually: %s (%s)", lead.Name, lead.ID)
	return &CreateLeadOutput{ID: lead.ID}, nil
}
