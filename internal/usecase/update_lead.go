package usecase

import (
	"context"

	"github.com/xavierca1/leadgrid/internal/entity"
)

// UpdateLeadUseCase forwards a sparse field update to the store. The store
// stamps Last Call Date on every accepted write; the client never sets it.
type UpdateLeadUseCase struct {
	Store entity.LeadStoreInterface
}

func NewUpdateLeadUseCase(store entity.LeadStoreInterface) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{Store: store}
}

func (uc *UpdateLeadUseCase) Execute(ctx context.Context, id string, patch entity.LeadPatch) error {
	if id == "" {
		return &DomainError{Code: "MISSING_ID", Message: "lead id is required"}
	}
	return uc.Store.Patch(ctx, id, patch)
}
