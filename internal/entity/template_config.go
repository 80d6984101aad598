package entity

import (
	"context"
	"errors"
	"time"
)

var ErrTemplateConfigNotFound = errors.New("configuração de template não encontrada")

// TemplateConfig guarda credenciais do provedor e a identidade do template.
// No máximo uma configuração ativa fica marcada como padrão.
type TemplateConfig struct {
	ID               int64     `json:"id"`
	ConfigName       string    `json:"config_name"`
	TemplateName     string    `json:"template_name"`
	TemplateLanguage string    `json:"template_language"`
	PhoneNumberID    string    `json:"phone_number_id"`
	AccessToken      string    `json:"access_token,omitempty"`
	VerifyToken      string    `json:"verify_token,omitempty"`
	HeaderMedia      string    `json:"header_media,omitempty"`      // URL pública da mídia
	HeaderMediaID    string    `json:"header_media_id,omitempty"`   // ID de mídia já enviada ao provedor
	HeaderMediaType  string    `json:"header_media_type,omitempty"` // IMAGE, VIDEO, DOCUMENT
	IsDefault        bool      `json:"is_default"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Summary é a visão pública usada na tela de envio (sem credenciais).
type TemplateConfigSummary struct {
	ID           int64  `json:"id"`
	ConfigName   string `json:"config_name"`
	TemplateName string `json:"template_name"`
	IsDefault    bool   `json:"is_default"`
}

func (t *TemplateConfig) Summary() TemplateConfigSummary {
	return TemplateConfigSummary{
		ID:           t.ID,
		ConfigName:   t.ConfigName,
		TemplateName: t.TemplateName,
		IsDefault:    t.IsDefault,
	}
}

type TemplateConfigRepositoryInterface interface {
	Create(ctx context.Context, t *TemplateConfig) error
	Update(ctx context.Context, t *TemplateConfig) error
	FindByID(ctx context.Context, id int64) (*TemplateConfig, error)
	FindDefault(ctx context.Context) (*TemplateConfig, error)
	ListActive(ctx context.Context) ([]*TemplateConfig, error)
	Deactivate(ctx context.Context, id int64) error
}
