package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-profile-flow/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-profile-flow/internal/usecase"
)

const maxWebhookBody = 1 << 20

// MessageHandler processa uma mensagem normalizada (usecase.Engine).
type MessageHandler interface {
	Handle(ctx context.Context, msg usecase.InboundMessage) error
}

type WebhookHandler struct {
	Engine      MessageHandler
	VerifyToken string
	AppSecret   string
	logger      *zap.Logger
}

func NewWebhookHandler(engine MessageHandler, verifyToken, appSecret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		Engine:      engine,
		VerifyToken: verifyToken,
		AppSecret:   appSecret,
		logger:      logger,
	}
}

// Verify atende o desafio de assinatura do webhook (GET /api/webhook).
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode != "subscribe" || h.VerifyToken == "" || token != h.VerifyToken {
		h.logger.Warn("verificação de webhook recusada", zap.String("mode", mode))
		w.WriteHeader(http.StatusForbidden)
		return
	}

	h.logger.Info("webhook verificado")
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, challenge)
}

// Receive processa as notificações de mensagens (POST /api/webhook).
// Depois que o corpo é lido, responde sempre 200 para o provedor não reenviar.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Error("falha ao ler corpo do webhook", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if h.AppSecret != "" && !whatsapp.VerifySignature(body, r.Header.Get("X-Hub-Signature-256"), h.AppSecret) {
		h.logger.Warn("assinatura do webhook inválida")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Error("payload do webhook inválido", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// o processamento não deve ser cancelado se o provedor fechar a conexão
	ctx := context.WithoutCancel(r.Context())

	for _, m := range whatsapp.Normalize(payload) {
		msg := usecase.InboundMessage{
			MessageID:     m.MessageID,
			From:          m.From,
			Type:          m.Type,
			Text:          m.Text,
			ButtonReplyID: m.ButtonReplyID,
			ContactName:   m.ContactName,
		}
		if err := h.Engine.Handle(ctx, msg); err != nil {
			h.logger.Error("falha ao processar mensagem",
				zap.String("message_id", m.MessageID),
				zap.String("phone", m.From),
				zap.Error(err))
		}
	}

	w.WriteHeader(http.StatusOK)
}
