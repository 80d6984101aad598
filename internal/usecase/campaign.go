package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/integration/whatsapp"
)

// CampaignUseCase envia o template de uma TemplateConfig para uma lista de
// telefones e deixa cada conversa iniciada em TEMPLATE_SENT.
type CampaignUseCase struct {
	Configs            *TemplateConfigUseCase
	NewMessenger       TemplateMessengerFactory
	States             entity.ConversationStore
	Locker             *PhoneLocker
	Metrics            FlowMetrics
	DefaultCountryCode string

	logger *zap.Logger
	now    func() time.Time
}

func NewCampaignUseCase(
	configs *TemplateConfigUseCase,
	factory TemplateMessengerFactory,
	states entity.ConversationStore,
	locker *PhoneLocker,
	metrics FlowMetrics,
	defaultCountryCode string,
	logger *zap.Logger,
) *CampaignUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if locker == nil {
		locker = NewPhoneLocker()
	}
	return &CampaignUseCase{
		Configs:            configs,
		NewMessenger:       factory,
		States:             states,
		Locker:             locker,
		Metrics:            metrics,
		DefaultCountryCode: defaultCountryCode,
		logger:             logger,
		now:                time.Now,
	}
}

// Execute só falha por inteiro quando a entrada ou a configuração são inválidas;
// falhas por destinatário ficam em Results.
func (uc *CampaignUseCase) Execute(ctx context.Context, input SendCampaignInput) (*SendCampaignOutput, error) {
	if errs := validateStruct(input); len(errs) > 0 {
		return nil, validationDomainError(errs)
	}

	cfg, err := uc.Configs.Resolve(ctx, input.ConfigID)
	if err != nil {
		return nil, err
	}

	messenger := uc.NewMessenger(cfg.PhoneNumberID, cfg.AccessToken)
	header := headerFor(cfg)

	out := &SendCampaignOutput{
		CampaignID:   uuid.New().String(),
		Label:        strings.TrimSpace(input.Label),
		ConfigID:     cfg.ID,
		TemplateName: cfg.TemplateName,
		Results:      make([]CampaignItemResult, 0, len(input.Recipients)),
	}
	log := uc.logger.With(
		zap.String("campaign_id", out.CampaignID),
		zap.String("label", out.Label),
		zap.String("template", cfg.TemplateName),
	)

	for _, r := range input.Recipients {
		result := uc.sendOne(ctx, log, messenger, cfg, header, r, input.Parameters)
		switch {
		case result.Skipped:
			out.Skipped++
		case result.Success:
			out.Sent++
		default:
			out.Failed++
		}
		out.Results = append(out.Results, result)
	}

	log.Info("campanha processada", zap.Int("sent", out.Sent), zap.Int("failed", out.Failed), zap.Int("skipped", out.Skipped))
	return out, nil
}

// SendSingle é a campanha de um destinatário usada pela tela de envio avulso.
func (uc *CampaignUseCase) SendSingle(ctx context.Context, input SendTemplateInput) (*SendCampaignOutput, error) {
	return uc.Execute(ctx, SendCampaignInput{
		ConfigID:   input.ConfigID,
		Recipients: []CampaignRecipient{{PhoneNumber: input.PhoneNumber}},
		Parameters: input.Parameters,
	})
}

func (uc *CampaignUseCase) sendOne(
	ctx context.Context,
	log *zap.Logger,
	messenger TemplateMessenger,
	cfg *entity.TemplateConfig,
	header *whatsapp.HeaderMedia,
	r CampaignRecipient,
	params []string,
) CampaignItemResult {
	name := strings.TrimSpace(r.Name)
	phone, err := NormalizePhone(r.PhoneNumber, uc.DefaultCountryCode)
	if err != nil {
		return CampaignItemResult{PhoneNumber: r.PhoneNumber, Name: name, Error: err.Error()}
	}
	log = log.With(zap.String("phone", phone))

	unlock := uc.Locker.Lock(phone)
	defer unlock()

	// só um template anterior sem resposta pode ser substituído
	existing, err := uc.States.Get(ctx, phone)
	if err != nil {
		log.Error("falha ao ler estado da conversa", zap.Error(err))
		return CampaignItemResult{PhoneNumber: phone, Name: name, Error: err.Error()}
	}
	if existing != nil && existing.Step != entity.StepTemplateSent {
		log.Info("conversa em andamento, destinatário ignorado", zap.String("step", string(existing.Step)))
		return CampaignItemResult{PhoneNumber: phone, Name: name, Skipped: true, Error: "conversation in progress"}
	}

	res, err := messenger.SendTemplate(ctx, whatsapp.TemplateInput{
		PhoneNumber:  phone,
		TemplateName: cfg.TemplateName,
		LanguageCode: cfg.TemplateLanguage,
		Parameters:   params,
		Header:       header,
	})
	uc.Metrics.RecordMessage("template", err == nil)
	if err != nil {
		log.Error("falha ao enviar template da campanha", zap.Error(err))
		return CampaignItemResult{PhoneNumber: phone, Name: name, Error: err.Error()}
	}

	state := entity.NewConversationState(entity.StepTemplateSent)
	state.PendingData[entity.PendingVariant] = entity.VariantCampaign
	state.UpdatedAt = uc.now()
	if err := uc.States.Set(ctx, phone, state); err != nil {
		log.Error("template enviado, mas falha ao gravar estado", zap.Error(err))
	}

	result := CampaignItemResult{PhoneNumber: phone, Name: name, Success: true}
	if res != nil {
		result.MessageID = res.MessageID
	}
	return result
}

func headerFor(cfg *entity.TemplateConfig) *whatsapp.HeaderMedia {
	if cfg.HeaderMedia == "" && cfg.HeaderMediaID == "" {
		return nil
	}
	mediaType := strings.ToLower(cfg.HeaderMediaType)
	if mediaType == "" {
		mediaType = "image"
	}
	return &whatsapp.HeaderMedia{Type: mediaType, Link: cfg.HeaderMedia, ID: cfg.HeaderMediaID}
}
