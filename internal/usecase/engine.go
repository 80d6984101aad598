package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/queue"
)

type Engine struct {
	Rules     FlowRules
	States    entity.ConversationStore
	Seen      entity.MessageLog // opcional
	Customers entity.CustomerRepositoryInterface
	Messenger Messenger
	Events    ProfileEventPublisher // opcional
	Metrics   FlowMetrics
	Locker    *PhoneLocker

	logger *zap.Logger
	now    func() time.Time
}

func NewEngine(
	rules FlowRules,
	states entity.ConversationStore,
	seen entity.MessageLog,
	customers entity.CustomerRepositoryInterface,
	messenger Messenger,
	events ProfileEventPublisher,
	metrics FlowMetrics,
	locker *PhoneLocker,
	logger *zap.Logger,
) *Engine {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if locker == nil {
		locker = NewPhoneLocker()
	}
	return &Engine{
		Rules:     rules,
		States:    states,
		Seen:      seen,
		Customers: customers,
		Messenger: messenger,
		Events:    events,
		Metrics:   metrics,
		Locker:    locker,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle processa uma mensagem: escritas no banco, depois envios, depois
// o estado da conversa. Só retorna erro de armazenamento; falhas de envio
// são logadas e o fluxo segue.
func (e *Engine) Handle(ctx context.Context, msg InboundMessage) error {
	phone := msg.From
	if phone == "" {
		return nil
	}

	unlock := e.Locker.Lock(phone)
	defer unlock()

	log := e.logger.With(zap.String("phone", phone))

	if e.Seen == nil || msg.MessageID == "" {
		return e.handle(ctx, log, phone, msg)
	}

	seen, err := e.Seen.Seen(ctx, phone, msg.MessageID)
	if err != nil {
		return &StoreError{Op: "get_seen", Err: err}
	}
	if seen {
		log.Info("mensagem reentregue ignorada", zap.String("message_id", msg.MessageID))
		return nil
	}

	if err := e.handle(ctx, log, phone, msg); err != nil {
		return err
	}
	if err := e.Seen.Remember(ctx, phone, msg.MessageID); err != nil {
		log.Warn("falha ao registrar mensagem processada", zap.String("message_id", msg.MessageID), zap.Error(err))
	}
	return nil
}

// handle roda um turno do fluxo; o chamador já segura o lock do telefone.
func (e *Engine) handle(ctx context.Context, log *zap.Logger, phone string, msg InboundMessage) error {
	stored, err := e.States.Get(ctx, phone)
	if err != nil {
		return &StoreError{Op: "get_state", Err: err}
	}
	current := entity.NewConversationState(entity.StepInitial)
	if stored != nil {
		current = *stored
	}

	var customer *entity.Customer
	if NeedsCustomer(current.Step) {
		customer, err = e.Customers.FindActiveByPhone(ctx, phone)
		if err != nil && !errors.Is(err, entity.ErrCustomerNotFound) {
			return &StoreError{Op: "find_customer", Err: err}
		}
	}

	decision := e.Rules.Transition(current, msg, customer)

	if decision.Ignored {
		if IsNotFoundError(decision.Err) {
			log.Info("mensagem ignorada: cliente não encontrado", zap.String("step", string(current.Step)))
		} else {
			log.Debug("mensagem ignorada", zap.String("type", msg.Type))
		}
		return nil
	}

	if IsValidationError(decision.Err) {
		log.Info("entrada inválida, pedindo novamente", zap.String("step", string(current.Step)))
		e.Metrics.RecordValidationFailure(string(current.Step))
	}

	customerID, err := e.applyWrites(ctx, decision.Writes, customer)
	if err != nil {
		return err
	}

	for _, out := range decision.Messages {
		e.send(ctx, log, phone, out)
	}

	nextStep := "TERMINATED"
	if decision.Next == nil {
		if err := e.States.Delete(ctx, phone); err != nil {
			return &StoreError{Op: "delete_state", Err: err}
		}
	} else {
		next := *decision.Next
		next.UpdatedAt = e.now()
		if customerID != 0 {
			next.PendingData[entity.PendingCustomer] = strconv.FormatInt(customerID, 10)
		}
		if err := e.States.Set(ctx, phone, next); err != nil {
			return &StoreError{Op: "set_state", Err: err}
		}
		nextStep = string(next.Step)
	}
	e.Metrics.RecordTransition(string(current.Step), nextStep)

	if decision.Completed {
		e.publishCompleted(ctx, log, phone, current, decision, customerID)
	}

	return nil
}

func (e *Engine) applyWrites(ctx context.Context, writes []CustomerWrite, customer *entity.Customer) (int64, error) {
	var customerID int64
	if customer != nil {
		customerID = customer.ID
	}

	for _, w := range writes {
		switch w.Kind {
		case WriteCreateCustomer:
			dob, doa := w.DateOfBirth, w.DateOfAnniversary
			c, err := entity.NewCustomer(w.Name, w.PhoneNumber, &dob, &doa)
			if err != nil {
				return 0, &StoreError{Op: "create_customer", Err: err}
			}
			if err := e.Customers.Create(ctx, c); err != nil {
				return 0, &StoreError{Op: "create_customer", Err: err}
			}
			customerID = c.ID

		case WriteUpdateDates:
			if err := e.Customers.UpdateDates(ctx, w.CustomerID, w.DateOfBirth, w.DateOfAnniversary); err != nil {
				return 0, &StoreError{Op: "update_dates", Err: err}
			}
			customerID = w.CustomerID

		case WriteUpdateName:
			if err := e.Customers.UpdateName(ctx, w.CustomerID, w.Name); err != nil {
				return 0, &StoreError{Op: "update_name", Err: err}
			}
			customerID = w.CustomerID
		}
	}
	return customerID, nil
}

func (e *Engine) send(ctx context.Context, log *zap.Logger, phone string, out OutboundMessage) {
	var err error
	switch out.Kind {
	case MessageButtons:
		_, err = e.Messenger.SendInteractiveButtons(ctx, phone, out.Body, out.Buttons)
	default:
		_, err = e.Messenger.SendText(ctx, phone, out.Body)
	}

	e.Metrics.RecordMessage(string(out.Kind), err == nil)
	if err != nil {
		log.Error("falha ao enviar mensagem", zap.String("kind", string(out.Kind)), zap.Error(err))
	}
}

func (e *Engine) publishCompleted(ctx context.Context, log *zap.Logger, phone string, state entity.ConversationState, d Decision, customerID int64) {
	if e.Events == nil {
		return
	}

	name := state.PendingData[entity.PendingName]
	for _, w := range d.Writes {
		if w.Kind == WriteUpdateName {
			name = w.Name
		}
	}

	if customerID == 0 {
		customerID, _ = strconv.ParseInt(state.PendingData[entity.PendingCustomer], 10, 64)
	}

	variant := state.PendingData[entity.PendingVariant]
	if variant == "" {
		variant = entity.VariantReactive
	}

	payload := queue.ProfileCompletedPayload{
		CustomerID:        customerID,
		PhoneNumber:       phone,
		Name:              name,
		DateOfBirth:       state.PendingData[entity.PendingDOB],
		DateOfAnniversary: state.PendingData[entity.PendingDOA],
		Variant:           variant,
		OccurredAt:        e.now().UTC(),
	}

	if err := e.Events.PublishProfileCompleted(ctx, payload); err != nil {
		log.Warn("perfil salvo, mas falha ao publicar evento", zap.Error(err))
	}
}
