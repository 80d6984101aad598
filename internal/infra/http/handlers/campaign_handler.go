package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-profile-flow/internal/usecase"
)

type CampaignHandler struct {
	UC *usecase.CampaignUseCase
}

func NewCampaignHandler(uc *usecase.CampaignUseCase) *CampaignHandler {
	return &CampaignHandler{UC: uc}
}

// POST /api/campaigns
func (h *CampaignHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendCampaignInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	out, err := h.UC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/send-template
func (h *CampaignHandler) SendSingle(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendTemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	out, err := h.UC.SendSingle(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	status := http.StatusOK
	if out.Failed > 0 {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, out)
}
