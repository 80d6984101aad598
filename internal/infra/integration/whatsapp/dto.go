package whatsapp

import "fmt"

const (
	ButtonYes = "yes"
	ButtonNo  = "no"
)

type Button struct {
	ID    string // Ex: "yes"
	Title string // Ex: "Yes"
}

// YesNoButtons são os dois botões que o motor do fluxo sabe interpretar.
func YesNoButtons() []Button {
	return []Button{
		{ID: ButtonYes, Title: "Yes"},
		{ID: ButtonNo, Title: "No"},
	}
}

type HeaderMedia struct {
	Type string // image, video, document
	Link string // URL pública
	ID   string // ID de upload no provedor (tem prioridade sobre Link)
}

type TemplateInput struct {
	PhoneNumber  string   // Ex: "919999999999"
	TemplateName string   // Ex: "profile_update"
	LanguageCode string   // Ex: "en_US"
	Parameters   []string // Ex: []string{"Asha"}
	Header       *HeaderMedia
}

type SendResult struct {
	MessageID string
	WaID      string
	Raw       []byte
}

type SendMessageResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *ErrorResponse `json:"error"`
}

type ErrorResponse struct {
	Message   string `json:"message"`
	Code      int    `json:"code"`
	Type      string `json:"type"`
	FBTraceID string `json:"fbtrace_id"`
}

// GatewayError carrega o corpo de erro devolvido pelo provedor.
// StatusCode zero indica falha de rede (sem resposta).
type GatewayError struct {
	StatusCode int
	Code       int
	Message    string
	Body       string
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("whatsapp: %s", e.Message)
	}
	return fmt.Sprintf("whatsapp api error %d: %s", e.StatusCode, e.Message)
}
