package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/leadgrid/internal/infra/http/middleware"
	"github.com/xavierca1/leadgrid/internal/usecase"
)

type ScrapeHandler struct {
	ScrapeUC *usecase.ScrapeLeadsUseCase
}

func NewScrapeHandler(uc *usecase.ScrapeLeadsUseCase) *ScrapeHandler {
	return &ScrapeHandler{ScrapeUC: uc}
}

// HandleScrape serves POST /scrape: discovery ingestion for a city and a
// list of categories.
func (h *ScrapeHandler) HandleScrape(w http.ResponseWriter, r *http.Request) {
	var input usecase.ScrapeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	out, err := h.ScrapeUC.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsDomainError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		middleware.RecordIntegrationError("places")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RecordScrapedLeads(out.Count)
	middleware.SetScrapeUsage(out.Usage)
	writeJSON(w, http.StatusOK, out)
}

// HandleScrapeLink serves POST /scrape-link: single-URL ingestion.
func (h *ScrapeHandler) HandleScrapeLink(w http.ResponseWriter, r *http.Request) {
	var input usecase.ScrapeLinkInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	out, err := h.ScrapeUC.ExecuteLink(r.Context(), input)
	if err != nil {
		if usecase.IsDomainError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		middleware.RecordIntegrationError("places")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RecordScrapedLeads(out.Count)
	middleware.SetScrapeUsage(out.Usage)
	writeJSON(w, http.StatusOK, out)
}
