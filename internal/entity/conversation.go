package entity

import (
	"context"
	"fmt"
	"time"
)

type StepID string

const (
	StepInitial                  StepID = "INITIAL"
	StepAwaitingConsent          StepID = "AWAITING_CONSENT"
	StepAwaitingDOB              StepID = "AWAITING_DOB"
	StepAwaitingDOA              StepID = "AWAITING_DOA"
	StepAwaitingNameConfirmation StepID = "AWAITING_NAME_CONFIRMATION"
	StepAwaitingNewName          StepID = "AWAITING_NEW_NAME"
	StepTemplateSent             StepID = "TEMPLATE_SENT"
)

// Chaves de PendingData
const (
	PendingName     = "name"
	PendingDOB      = "dob"
	PendingDOA      = "doa"
	PendingVariant  = "variant"
	PendingAttempts = "attempts"
	PendingCustomer = "customer_id"
)

const (
	VariantReactive = "reactive"
	VariantCampaign = "campaign"
)

// ConversationState é a posição de um telefone no fluxo.
type ConversationState struct {
	Step        StepID            `json:"step"`
	PendingData map[string]string `json:"pending_data,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func NewConversationState(step StepID) ConversationState {
	return ConversationState{Step: step, PendingData: map[string]string{}}
}

// Clone devolve uma cópia independente (o mapa não é compartilhado).
func (s ConversationState) Clone() ConversationState {
	pending := make(map[string]string, len(s.PendingData))
	for k, v := range s.PendingData {
		pending[k] = v
	}
	s.PendingData = pending
	return s
}

// ConversationStore é a única autoridade sobre a posição de cada telefone.
type ConversationStore interface {
	Get(ctx context.Context, phone string) (*ConversationState, error) // nil, nil quando ausente
	Set(ctx context.Context, phone string, state ConversationState) error
	Delete(ctx context.Context, phone string) error
}

// TriggerKey identifica um disparo proativo já realizado.
type TriggerKey struct {
	PhoneNumber string
	CustomerID  int64
}

func (k TriggerKey) String() string {
	return fmt.Sprintf("%s:%d", k.PhoneNumber, k.CustomerID)
}

type TriggerSet interface {
	Contains(ctx context.Context, key TriggerKey) (bool, error)
	Add(ctx context.Context, key TriggerKey) error
}

// MessageLog lembra os ids de mensagem já processados por telefone, para
// que reentregas do webhook não avancem o fluxo duas vezes.
type MessageLog interface {
	Seen(ctx context.Context, phone, messageID string) (bool, error)
	Remember(ctx context.Context, phone, messageID string) error
}
