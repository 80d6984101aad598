package usecase

import (
	"context"

	"github.com/xavierca1/ligue-profile-flow/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/queue"
)

// Messenger é o cliente de envio usado dentro da conversa.
type Messenger interface {
	SendText(ctx context.Context, to, body string) (*whatsapp.SendResult, error)
	SendInteractiveButtons(ctx context.Context, to, body string, buttons []whatsapp.Button) (*whatsapp.SendResult, error)
}

// TemplateMessenger inicia conversas com template aprovado.
type TemplateMessenger interface {
	SendTemplate(ctx context.Context, input whatsapp.TemplateInput) (*whatsapp.SendResult, error)
}

// TemplateMessengerFactory cria um cliente com as credenciais de uma TemplateConfig.
type TemplateMessengerFactory func(phoneNumberID, accessToken string) TemplateMessenger

type ProfileEventPublisher interface {
	PublishProfileCompleted(ctx context.Context, payload queue.ProfileCompletedPayload) error
}

// FlowMetrics é implementado pelo coletor Prometheus.
type FlowMetrics interface {
	RecordTransition(from, to string)
	RecordValidationFailure(step string)
	RecordMessage(kind string, ok bool)
	RecordTrigger(outcome string)
}

type nopMetrics struct{}

func (nopMetrics) RecordTransition(string, string) {}
func (nopMetrics) RecordValidationFailure(string) {}
func (nopMetrics) RecordMessage(string, bool) {}
func (nopMetrics) RecordTrigger(string) {}
