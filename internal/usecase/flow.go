package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/integration/whatsapp"
)

const (
	MsgConsentPrompt   = "Are you willing to use our service?"
	MsgDeclined        = "Thank you for your time!"
	MsgAskDOB          = "Please enter your Date of Birth (YYYY-MM-DD):"
	MsgInvalidDOB      = "Invalid format. Please enter Date of Birth in YYYY-MM-DD format:"
	MsgAskDOA          = "Please enter your Date of Anniversary (YYYY-MM-DD):"
	MsgInvalidDOA      = "Invalid format. Please enter Date of Anniversary in YYYY-MM-DD format:"
	MsgAskNewName      = "Please enter your name:"
	MsgCompleted       = "Thank you! Your information has been saved successfully. 🎉"
	MsgTooManyAttempts = "Too many invalid attempts. Please message us again whenever you are ready."
)

func NameConfirmationPrompt(name string) string {
	return fmt.Sprintf("Want to update name? Already you have name \"%s\"... type Yes to change", name)
}

const (
	InputText        = "text"
	InputInteractive = "interactive"
)

// InboundMessage é a mensagem já normalizada vinda do webhook.
type InboundMessage struct {
	MessageID     string
	From          string
	Type          string
	Text          string
	ButtonReplyID string
	ContactName   string
}

// Apenas texto e resposta de botão são entradas válidas.
func (m InboundMessage) legal() bool {
	switch m.Type {
	case InputText:
		return true
	case InputInteractive:
		return m.ButtonReplyID != ""
	default:
		return false
	}
}

func (m InboundMessage) value() string {
	if m.Type == InputInteractive {
		return m.ButtonReplyID
	}
	return strings.TrimSpace(m.Text)
}

type MessageKind string

const (
	MessageText    MessageKind = "text"
	MessageButtons MessageKind = "buttons"
)

type OutboundMessage struct {
	Kind    MessageKind
	Body    string
	Buttons []whatsapp.Button
}

type WriteKind string

const (
	WriteCreateCustomer WriteKind = "create_customer"
	WriteUpdateDates    WriteKind = "update_dates"
	WriteUpdateName     WriteKind = "update_name"
)

type CustomerWrite struct {
	Kind              WriteKind
	CustomerID        int64
	Name              string
	PhoneNumber       string
	DateOfBirth       time.Time
	DateOfAnniversary time.Time
}

// Decision é o resultado de uma transição. Next nil significa encerrar
// a conversa (estado removido).
type Decision struct {
	Next      *entity.ConversationState
	Ignored   bool
	Messages  []OutboundMessage
	Writes    []CustomerWrite
	Completed bool
	Err       error
}

// FlowRules guarda os parâmetros da máquina de estados.
// MaxInvalidAttempts <= 0 mantém o reenvio ilimitado de datas inválidas.
type FlowRules struct {
	MaxInvalidAttempts int
}

// NeedsCustomer indica os passos cuja decisão depende do cliente salvo.
func NeedsCustomer(step entity.StepID) bool {
	switch step {
	case entity.StepTemplateSent, entity.StepAwaitingDOA, entity.StepAwaitingNewName:
		return true
	}
	return false
}

// Transition é uma função pura de (estado, entrada, cliente salvo).
func (r FlowRules) Transition(state entity.ConversationState, in InboundMessage, customer *entity.Customer) Decision {
	if !in.legal() {
		return Decision{Ignored: true}
	}

	state = state.Clone()
	input := in.value()

	switch state.Step {
	case entity.StepAwaitingConsent:
		if !strings.EqualFold(input, whatsapp.ButtonYes) {
			return Decision{Messages: []OutboundMessage{text(MsgDeclined)}}
		}
		state.Step = entity.StepAwaitingDOB
		state.PendingData[entity.PendingName] = strings.TrimSpace(in.ContactName)
		return Decision{Next: &state, Messages: []OutboundMessage{text(MsgAskDOB)}}

	case entity.StepTemplateSent:
		if customer == nil {
			return Decision{Ignored: true, Err: &NotFoundError{Phone: in.From}}
		}
		state.Step = entity.StepAwaitingDOB
		state.PendingData[entity.PendingVariant] = entity.VariantCampaign
		state.PendingData[entity.PendingName] = customer.Name
		return Decision{Next: &state, Messages: []OutboundMessage{text(MsgAskDOB)}}

	case entity.StepAwaitingDOB:
		dob, err := ParseProfileDate(input)
		if err != nil {
			return r.invalidDate(state, MsgInvalidDOB, err)
		}
		delete(state.PendingData, entity.PendingAttempts)
		state.PendingData[entity.PendingDOB] = FormatProfileDate(dob)
		state.Step = entity.StepAwaitingDOA
		return Decision{Next: &state, Messages: []OutboundMessage{text(MsgAskDOA)}}

	case entity.StepAwaitingDOA:
		doa, err := ParseProfileDate(input)
		if err != nil {
			return r.invalidDate(state, MsgInvalidDOA, err)
		}
		return r.completeDates(state, in, doa, customer)

	case entity.StepAwaitingNameConfirmation:
		if !strings.EqualFold(input, "yes") {
			return Decision{Completed: true, Messages: []OutboundMessage{text(MsgCompleted)}}
		}
		state.Step = entity.StepAwaitingNewName
		return Decision{Next: &state, Messages: []OutboundMessage{text(MsgAskNewName)}}

	case entity.StepAwaitingNewName:
		if in.Type != InputText || input == "" {
			return Decision{Next: &state, Messages: []OutboundMessage{text(MsgAskNewName)}}
		}
		if customer == nil {
			return Decision{Ignored: true, Err: &NotFoundError{Phone: in.From}}
		}
		return Decision{
			Completed: true,
			Writes:    []CustomerWrite{{Kind: WriteUpdateName, CustomerID: customer.ID, Name: input}},
			Messages:  []OutboundMessage{text(MsgCompleted)},
		}

	default:
		// INITIAL ou passo desconhecido: recomeça pelo consentimento
		next := entity.NewConversationState(entity.StepAwaitingConsent)
		next.PendingData[entity.PendingVariant] = entity.VariantReactive
		return Decision{
			Next: &next,
			Messages: []OutboundMessage{{
				Kind:    MessageButtons,
				Body:    MsgConsentPrompt,
				Buttons: whatsapp.YesNoButtons(),
			}},
		}
	}
}

func (r FlowRules) completeDates(state entity.ConversationState, in InboundMessage, doa time.Time, customer *entity.Customer) Decision {
	dob, err := ParseProfileDate(state.PendingData[entity.PendingDOB])
	if err != nil {
		// estado sem DOB válido: volta a pedir a data de nascimento
		state.Step = entity.StepAwaitingDOB
		return Decision{Next: &state, Messages: []OutboundMessage{text(MsgAskDOB)}, Err: err}
	}

	pendingName := state.PendingData[entity.PendingName]
	var writes []CustomerWrite
	displayName := pendingName

	if state.PendingData[entity.PendingVariant] == entity.VariantCampaign {
		if customer == nil {
			return Decision{Ignored: true, Err: &NotFoundError{Phone: in.From}}
		}
		writes = append(writes, CustomerWrite{
			Kind: WriteUpdateDates, CustomerID: customer.ID, DateOfBirth: dob, DateOfAnniversary: doa,
		})
		displayName = customer.Name
	} else if customer == nil {
		writes = append(writes, CustomerWrite{
			Kind:              WriteCreateCustomer,
			Name:              pendingName,
			PhoneNumber:       in.From,
			DateOfBirth:       dob,
			DateOfAnniversary: doa,
		})
	} else {
		writes = append(writes, CustomerWrite{
			Kind: WriteUpdateDates, CustomerID: customer.ID, DateOfBirth: dob, DateOfAnniversary: doa,
		})
		if strings.TrimSpace(customer.Name) == "" && pendingName != "" {
			writes = append(writes, CustomerWrite{Kind: WriteUpdateName, CustomerID: customer.ID, Name: pendingName})
		} else {
			displayName = customer.Name
		}
	}

	delete(state.PendingData, entity.PendingAttempts)
	state.PendingData[entity.PendingDOA] = FormatProfileDate(doa)
	state.PendingData[entity.PendingName] = displayName
	state.Step = entity.StepAwaitingNameConfirmation

	return Decision{
		Next:     &state,
		Writes:   writes,
		Messages: []OutboundMessage{text(NameConfirmationPrompt(displayName))},
	}
}

func (r FlowRules) invalidDate(state entity.ConversationState, retry string, cause error) Decision {
	if r.MaxInvalidAttempts <= 0 {
		return Decision{Next: &state, Messages: []OutboundMessage{text(retry)}, Err: cause}
	}

	attempts, _ := strconv.Atoi(state.PendingData[entity.PendingAttempts])
	attempts++

	if attempts >= r.MaxInvalidAttempts {
		return Decision{Messages: []OutboundMessage{text(MsgTooManyAttempts)}, Err: cause}
	}

	state.PendingData[entity.PendingAttempts] = strconv.Itoa(attempts)
	return Decision{Next: &state, Messages: []OutboundMessage{text(retry)}, Err: cause}
}

func text(body string) OutboundMessage {
	return OutboundMessage{Kind: MessageText, Body: body}
}
