package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
	"github.com/xavierca1/ligue-profile-flow/internal/usecase"
)

type TemplateConfigHandler struct {
	UC *usecase.TemplateConfigUseCase
}

func NewTemplateConfigHandler(uc *usecase.TemplateConfigUseCase) *TemplateConfigHandler {
	return &TemplateConfigHandler{UC: uc}
}

func (h *TemplateConfigHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.TemplateConfigInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	cfg, err := h.UC.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, redact(cfg))
}

func (h *TemplateConfigHandler) List(w http.ResponseWriter, r *http.Request) {
	configs, err := h.UC.List(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	out := make([]*entity.TemplateConfig, 0, len(configs))
	for _, c := range configs {
		out = append(out, redact(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TemplateConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cfg, err := h.UC.Get(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redact(cfg))
}

func (h *TemplateConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input usecase.TemplateConfigInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	cfg, err := h.UC.Update(r.Context(), id, input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redact(cfg))
}

func (h *TemplateConfigHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.UC.Delete(r.Context(), id); err != nil {
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Configs lista as opções da tela de envio (GET /api/send-template/configs).
func (h *TemplateConfigHandler) Configs(w http.ResponseWriter, r *http.Request) {
	out, err := h.UC.Summaries(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// redact remove as credenciais antes de responder.
func redact(c *entity.TemplateConfig) *entity.TemplateConfig {
	out := *c
	out.AccessToken = ""
	out.VerifyToken = ""
	return &out
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
