package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Tipos do webhook padrão Meta (entry -> changes -> value).

type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Contacts         []Contact        `json:"contacts,omitempty"`
	Messages         []InboundMessage `json:"messages,omitempty"`
	Statuses         []Status         `json:"statuses,omitempty"`
}

type Contact struct {
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
	WaID string `json:"wa_id"`
}

type InboundMessage struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Text        *TextContent        `json:"text,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
}

type TextContent struct {
	Body string `json:"body"`
}

type InteractiveContent struct {
	Type        string `json:"type"`
	ButtonReply *struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"button_reply,omitempty"`
}

type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RecipientID string `json:"recipient_id"`
}

// NormalizedMessage é o formato mínimo que o motor do fluxo consome.
type NormalizedMessage struct {
	MessageID     string
	From          string
	Type          string // text, interactive ou o tipo original (ignorado)
	Text          string
	ButtonReplyID string
	ContactName   string
}

// Normalize achata todas as mensagens da entrega. Status de entrega não geram mensagens.
func Normalize(p WebhookPayload) []NormalizedMessage {
	var out []NormalizedMessage
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			names := make(map[string]string, len(change.Value.Contacts))
			for _, c := range change.Value.Contacts {
				names[c.WaID] = c.Profile.Name
			}
			fallbackName := ""
			if len(change.Value.Contacts) > 0 {
				fallbackName = change.Value.Contacts[0].Profile.Name
			}

			for _, m := range change.Value.Messages {
				n := NormalizedMessage{
					MessageID: m.ID,
					From:      m.From,
					Type:      m.Type,
				}
				if name, ok := names[m.From]; ok {
					n.ContactName = name
				} else {
					n.ContactName = fallbackName
				}

				switch m.Type {
				case "text":
					if m.Text != nil {
						n.Text = strings.TrimSpace(m.Text.Body)
					}
				case "interactive":
					if m.Interactive != nil && m.Interactive.ButtonReply != nil {
						n.ButtonReplyID = m.Interactive.ButtonReply.ID
					} else {
						// list_reply e afins não fazem parte do fluxo
						n.Type = "interactive_unsupported"
					}
				}
				out = append(out, n)
			}
		}
	}
	return out
}

// VerifySignature confere o header X-Hub-Signature-256 ("sha256=<hex>").
func VerifySignature(body []byte, header, appSecret string) bool {
	const prefix = "sha256="
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
