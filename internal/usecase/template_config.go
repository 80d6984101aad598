package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
)

const defaultTemplateLanguage = "en_US"

type TemplateConfigUseCase struct {
	Repo entity.TemplateConfigRepositoryInterface
}

func NewTemplateConfigUseCase(repo entity.TemplateConfigRepositoryInterface) *TemplateConfigUseCase {
	return &TemplateConfigUseCase{Repo: repo}
}

func (uc *TemplateConfigUseCase) Create(ctx context.Context, input TemplateConfigInput) (*entity.TemplateConfig, error) {
	if errs := validateStruct(input); len(errs) > 0 {
		return nil, validationDomainError(errs)
	}

	cfg := &entity.TemplateConfig{IsActive: true}
	applyTemplateInput(cfg, input)

	if err := uc.Repo.Create(ctx, cfg); err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao salvar configuração: " + err.Error()}
	}
	return cfg, nil
}

func (uc *TemplateConfigUseCase) Update(ctx context.Context, id int64, input TemplateConfigInput) (*entity.TemplateConfig, error) {
	if errs := validateStruct(input); len(errs) > 0 {
		return nil, validationDomainError(errs)
	}

	cfg, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyTemplateInput(cfg, input)

	if err := uc.Repo.Update(ctx, cfg); err != nil {
		return nil, mapTemplateErr(err, "erro ao atualizar configuração: ")
	}
	return cfg, nil
}

func (uc *TemplateConfigUseCase) Get(ctx context.Context, id int64) (*entity.TemplateConfig, error) {
	cfg, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapTemplateErr(err, "erro ao buscar configuração: ")
	}
	return cfg, nil
}

// List devolve as configurações ativas, padrão primeiro.
func (uc *TemplateConfigUseCase) List(ctx context.Context) ([]*entity.TemplateConfig, error) {
	configs, err := uc.Repo.ListActive(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao listar configurações: " + err.Error()}
	}
	return configs, nil
}

func (uc *TemplateConfigUseCase) Summaries(ctx context.Context) ([]entity.TemplateConfigSummary, error) {
	configs, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.TemplateConfigSummary, 0, len(configs))
	for _, c := range configs {
		out = append(out, c.Summary())
	}
	return out, nil
}

func (uc *TemplateConfigUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.Repo.Deactivate(ctx, id); err != nil {
		return mapTemplateErr(err, "erro ao remover configuração: ")
	}
	return nil
}

// Resolve escolhe a configuração do envio: por ID (precisa estar ativa) ou a padrão.
func (uc *TemplateConfigUseCase) Resolve(ctx context.Context, id int64) (*entity.TemplateConfig, error) {
	if id != 0 {
		cfg, err := uc.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !cfg.IsActive {
			return nil, &DomainError{Code: "TEMPLATE_CONFIG_NOT_FOUND", Message: "template configuration not found"}
		}
		return cfg, nil
	}

	cfg, err := uc.Repo.FindDefault(ctx)
	if errors.Is(err, entity.ErrTemplateConfigNotFound) {
		return nil, &DomainError{Code: "NO_DEFAULT_TEMPLATE", Message: "no default template configuration found"}
	}
	if err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar configuração padrão: " + err.Error()}
	}
	return cfg, nil
}

func applyTemplateInput(cfg *entity.TemplateConfig, in TemplateConfigInput) {
	cfg.ConfigName = strings.TrimSpace(in.ConfigName)
	cfg.TemplateName = strings.TrimSpace(in.TemplateName)
	cfg.TemplateLanguage = strings.TrimSpace(in.TemplateLanguage)
	if cfg.TemplateLanguage == "" {
		cfg.TemplateLanguage = defaultTemplateLanguage
	}
	cfg.PhoneNumberID = strings.TrimSpace(in.PhoneNumberID)
	cfg.AccessToken = in.AccessToken
	cfg.VerifyToken = in.VerifyToken
	cfg.HeaderMedia = strings.TrimSpace(in.HeaderMedia)
	cfg.HeaderMediaID = strings.TrimSpace(in.HeaderMediaID)
	cfg.HeaderMediaType = strings.ToUpper(strings.TrimSpace(in.HeaderMediaType))
	if cfg.HeaderMediaType == "" && (cfg.HeaderMedia != "" || cfg.HeaderMediaID != "") {
		cfg.HeaderMediaType = "IMAGE"
	}
	cfg.IsDefault = in.IsDefault
}

func mapTemplateErr(err error, prefix string) error {
	if errors.Is(err, entity.ErrTemplateConfigNotFound) {
		return &DomainError{Code: "TEMPLATE_CONFIG_NOT_FOUND", Message: "template configuration not found"}
	}
	return &TechnicalError{Code: "DB_ERROR", Message: prefix + err.Error()}
}
