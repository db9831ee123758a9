package usecase

import (
	"strings"
)

// ValidateScrapeInput rejects ingestion calls before they reach the store or
// spend any Places budget.
func ValidateScrapeInput(input ScrapeInput) error {
	if strings.TrimSpace(input.City) == "" || len(input.Categories) == 0 {
		return &DomainError{
			Code:    "MISSING_FIELDS",
			Message: "City and categories (array) are required",
		}
	}
	for _, c := range input.Categories {
		if strings.TrimSpace(c) == "" {
			return &DomainError{
				Code:    "MISSING_FIELDS",
				Message: "categories must not contain empty entries",
			}
		}
	}
	return nil
}
