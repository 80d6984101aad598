package usecase

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/integration/whatsapp"
)

type ProfileTriggerConfig struct {
	TemplateName string
	LanguageCode string
	Parameters   []string // placeholders fixos
}

type TriggerReport struct {
	Eligible int
	Sent     int
	Skipped  int
	Failed   int
}

// ProfileTrigger encontra clientes sem datas e inicia o fluxo por template.
type ProfileTrigger struct {
	Customers entity.CustomerRepositoryInterface
	States    entity.ConversationStore
	Processed entity.TriggerSet
	Messenger TemplateMessenger
	Locker    *PhoneLocker
	Metrics   FlowMetrics
	Config    ProfileTriggerConfig

	logger *zap.Logger
	now    func() time.Time
}

func NewProfileTrigger(
	customers entity.CustomerRepositoryInterface,
	states entity.ConversationStore,
	processed entity.TriggerSet,
	messenger TemplateMessenger,
	locker *PhoneLocker,
	metrics FlowMetrics,
	cfg ProfileTriggerConfig,
	logger *zap.Logger,
) *ProfileTrigger {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if locker == nil {
		locker = NewPhoneLocker()
	}
	return &ProfileTrigger{
		Customers: customers,
		States:    states,
		Processed: processed,
		Messenger: messenger,
		Locker:    locker,
		Metrics:   metrics,
		Config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executa uma varredura. Só retorna erro quando a consulta de clientes falha.
func (t *ProfileTrigger) Run(ctx context.Context) (TriggerReport, error) {
	var report TriggerReport

	customers, err := t.Customers.ListMissingProfile(ctx)
	if err != nil {
		return report, &StoreError{Op: "list_missing_profile", Err: err}
	}

	for _, c := range customers {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if !c.NeedsProfile() {
			continue
		}
		report.Eligible++

		switch t.trigger(ctx, c) {
		case "sent":
			report.Sent++
		case "failed":
			report.Failed++
		default:
			report.Skipped++
		}
	}

	return report, nil
}

func (t *ProfileTrigger) trigger(ctx context.Context, c *entity.Customer) string {
	key := entity.TriggerKey{PhoneNumber: c.PhoneNumber, CustomerID: c.ID}
	log := t.logger.With(zap.String("phone", c.PhoneNumber), zap.Int64("customer_id", c.ID))

	done, err := t.Processed.Contains(ctx, key)
	if err != nil {
		log.Error("falha ao consultar disparos processados", zap.Error(err))
		return "skipped"
	}
	if done {
		return "skipped"
	}

	unlock := t.Locker.Lock(c.PhoneNumber)
	defer unlock()

	// conversa em andamento não é sobrescrita; tenta de novo no próximo ciclo
	existing, err := t.States.Get(ctx, c.PhoneNumber)
	if err != nil {
		log.Error("falha ao ler estado da conversa", zap.Error(err))
		return "skipped"
	}
	if existing != nil {
		log.Debug("conversa em andamento, disparo adiado", zap.String("step", string(existing.Step)))
		return "skipped"
	}

	_, sendErr := t.Messenger.SendTemplate(ctx, whatsapp.TemplateInput{
		PhoneNumber:  c.PhoneNumber,
		TemplateName: t.Config.TemplateName,
		LanguageCode: t.Config.LanguageCode,
		Parameters:   t.Config.Parameters,
	})
	t.Metrics.RecordMessage("template", sendErr == nil)

	// marcado mesmo em falha: sem reenvio automático no mesmo processo
	if err := t.Processed.Add(ctx, key); err != nil {
		log.Error("falha ao marcar disparo como processado", zap.Error(err))
	}

	if sendErr != nil {
		log.Error("falha ao enviar template proativo", zap.Error(sendErr))
		t.Metrics.RecordTrigger("failed")
		return "failed"
	}

	state := entity.NewConversationState(entity.StepTemplateSent)
	state.PendingData[entity.PendingVariant] = entity.VariantCampaign
	state.PendingData[entity.PendingCustomer] = strconv.FormatInt(c.ID, 10)
	state.UpdatedAt = t.now()
	if err := t.States.Set(ctx, c.PhoneNumber, state); err != nil {
		log.Error("template enviado, mas falha ao gravar estado", zap.Error(err))
	}

	log.Info("template proativo enviado")
	t.Metrics.RecordTrigger("sent")
	return "sent"
}
