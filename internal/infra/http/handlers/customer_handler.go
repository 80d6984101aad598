package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-profile-flow/internal/usecase"
)

type CustomerHandler struct {
	UC *usecase.CustomerUseCase
}

func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{UC: uc}
}

// POST /api/customer
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateCustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	out, err := h.UC.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, out)
}

// GET /api/customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.List(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/customer/{mobile}
func (h *CustomerHandler) GetByMobile(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.GetByPhone(r.Context(), chi.URLParam(r, "mobile"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DELETE /api/customer/{id}
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer")
		return
	}

	if err := h.UC.Deactivate(r.Context(), id); err != nil {
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
