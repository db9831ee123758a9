package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/leadgrid/internal/entity"
	"github.com/xavierca1/leadgrid/internal/infra/http/middleware"
	"github.com/xavierca1/leadgrid/internal/usecase"
)

type LeadHandler struct {
	ListUC   *usecase.ListLeadsUseCase
	UpdateUC *usecase.UpdateLeadUseCase
	CreateUC *usecase.CreateLeadUseCase
}

func NewLeadHandler(list *usecase.ListLeadsUseCase, update *usecase.UpdateLeadUseCase, create *usecase.CreateLeadUseCase) *LeadHandler {
	return &LeadHandler{ListUC: list, UpdateUC: update, CreateUC: create}
}

// HandleList serves GET /leads: rollover sweep, then the full decoded list.
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	leads, rolled, err := h.ListUC.Execute(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if rolled > 0 {
		middleware.RecordReminderRollover(rolled)
	}

	writeJSON(w, http.StatusOK, leads)
}

// HandleUpdate serves PATCH /lead/{id}. The body is a sparse object in the
// public field vocabulary; unrecognized fields are ignored, not errored.
func (h *LeadHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log.Printf("[PATCH] Updating lead %s", id)

	var patch entity.LeadPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.UpdateUC.Execute(r.Context(), id, patch); err != nil {
		log.Printf("❌ [PATCH] %s: %v", id, err)
		middleware.RecordIntegrationError("sheets")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleCreate serves POST /lead for manual seeding.
func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	out, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsDomainError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": out.ID})
}
