package usecase

// Cadastro manual (formulário administrativo).
type CreateCustomerInput struct {
	Name              string `json:"name" validate:"required,max=120"`
	PhoneNumber       string `json:"phone_number" validate:"required"`
	DateOfBirth       string `json:"date_of_birth"`       // YYYY-MM-DD, opcional
	DateOfAnniversary string `json:"date_of_anniversary"` // YYYY-MM-DD, opcional
}

type CustomerOutput struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	PhoneNumber       string `json:"phone_number"`
	DateOfBirth       string `json:"date_of_birth,omitempty"`
	DateOfAnniversary string `json:"date_of_anniversary,omitempty"`
	ProfileComplete   bool   `json:"profile_complete"`
}

type TemplateConfigInput struct {
	ConfigName       string `json:"config_name" validate:"required,max=100"`
	TemplateName     string `json:"template_name" validate:"required,max=100"`
	TemplateLanguage string `json:"template_language"`
	PhoneNumberID    string `json:"phone_number_id" validate:"required"`
	AccessToken      string `json:"access_token" validate:"required"`
	VerifyToken      string `json:"verify_token"`
	HeaderMedia      string `json:"header_media" validate:"omitempty,url"`
	HeaderMediaID    string `json:"header_media_id"`
	HeaderMediaType  string `json:"header_media_type" validate:"omitempty,oneof=IMAGE VIDEO DOCUMENT image video document"`
	IsDefault        bool   `json:"is_default"`
}

type CampaignRecipient struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Name        string `json:"name"`
}

// SendCampaignInput: ConfigID 0 usa a configuração padrão.
type SendCampaignInput struct {
	Label      string              `json:"label" validate:"max=100"`
	ConfigID   int64               `json:"config_id"`
	Recipients []CampaignRecipient `json:"recipients" validate:"required,min=1,dive"`
	Parameters []string            `json:"parameters"`
}

type SendTemplateInput struct {
	ConfigID    int64    `json:"config_id"`
	PhoneNumber string   `json:"phone_number" validate:"required"`
	Parameters  []string `json:"parameters"`
}

// CampaignItemResult: Skipped indica conversa em andamento; nada foi enviado.
type CampaignItemResult struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name,omitempty"`
	Success     bool   `json:"success"`
	Skipped     bool   `json:"skipped,omitempty"`
	MessageID   string `json:"message_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

type SendCampaignOutput struct {
	CampaignID   string               `json:"campaign_id"`
	Label        string               `json:"label,omitempty"`
	ConfigID     int64                `json:"config_id"`
	TemplateName string               `json:"template_name"`
	Sent         int                  `json:"sent"`
	Failed       int                  `json:"failed"`
	Skipped      int                  `json:"skipped"`
	Results      []CampaignItemResult `json:"results"`
}
