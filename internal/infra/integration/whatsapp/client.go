package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://graph.facebook.com/v21.0"

type Client struct {
	accessToken string
	phoneID     string
	baseURL     string
	httpClient  *http.Client
}

func NewClient(baseURL, phoneID, accessToken string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		accessToken: accessToken,
		phoneID:     phoneID,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// WithCredentials devolve um cliente com outro número/token, usado pelas
// configurações de template de campanha.
func (c *Client) WithCredentials(phoneID, accessToken string) *Client {
	clone := *c
	clone.phoneID = phoneID
	clone.accessToken = accessToken
	return &clone
}

func (c *Client) SendText(ctx context.Context, to, body string) (*SendResult, error) {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": body},
	}
	return c.send(ctx, payload)
}

func (c *Client) SendInteractiveButtons(ctx context.Context, to, body string, buttons []Button) (*SendResult, error) {
	apiButtons := make([]map[string]interface{}, 0, len(buttons))
	for _, b := range buttons {
		apiButtons = append(apiButtons, map[string]interface{}{
			"type":  "reply",
			"reply": map[string]string{"id": b.ID, "title": b.Title},
		})
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type":   "button",
			"body":   map[string]string{"text": body},
			"action": map[string]interface{}{"buttons": apiButtons},
		},
	}
	return c.send(ctx, payload)
}

func (c *Client) SendTemplate(ctx context.Context, input TemplateInput) (*SendResult, error) {
	language := input.LanguageCode
	if language == "" {
		language = "en_US"
	}

	template := map[string]interface{}{
		"name":     input.TemplateName,
		"language": map[string]string{"code": language},
	}

	components := make([]map[string]interface{}, 0, 2)
	if header := headerComponent(input.Header); header != nil {
		components = append(components, header)
	}
	if len(input.Parameters) > 0 {
		components = append(components, map[string]interface{}{
			"type":       "body",
			"parameters": convertParametersToAPI(input.Parameters),
		})
	}
	if len(components) > 0 {
		template["components"] = components
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                input.PhoneNumber,
		"type":              "template",
		"template":          template,
	}
	return c.send(ctx, payload)
}

func (c *Client) send(ctx context.Context, payload map[string]interface{}) (*SendResult, error) {
	if c.accessToken == "" || c.phoneID == "" {
		return nil, &GatewayError{Message: "access token ou phone number id não configurados"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: erro ao serializar payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("whatsapp: erro ao criar requisição: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result SendMessageResponse
	decodeErr := json.Unmarshal(respBody, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gwErr := &GatewayError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(respBody),
		}
		if decodeErr == nil && result.Error != nil {
			gwErr.Code = result.Error.Code
			gwErr.Message = result.Error.Message
		}
		return nil, gwErr
	}

	if decodeErr != nil {
		return nil, &GatewayError{
			StatusCode: resp.StatusCode,
			Message:    "resposta ilegível: " + decodeErr.Error(),
			Body:       string(respBody),
		}
	}

	if result.Error != nil {
		return nil, &GatewayError{
			StatusCode: resp.StatusCode,
			Code:       result.Error.Code,
			Message:    result.Error.Message,
			Body:       string(respBody),
		}
	}

	out := &SendResult{Raw: respBody}
	if len(result.Messages) > 0 {
		out.MessageID = result.Messages[0].ID
	}
	if len(result.Contacts) > 0 {
		out.WaID = result.Contacts[0].WaID
	}
	return out, nil
}

func IsGatewayError(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr)
}

func headerComponent(h *HeaderMedia) map[string]interface{} {
	if h == nil || h.Type == "" || (h.Link == "" && h.ID == "") {
		return nil
	}

	mediaType := strings.ToLower(h.Type)
	media := map[string]string{}
	if h.ID != "" {
		media["id"] = h.ID
	} else {
		media["link"] = h.Link
	}

	return map[string]interface{}{
		"type": "header",
		"parameters": []map[string]interface{}{
			{
				"type":    mediaType,
				mediaType: media,
			},
		},
	}
}

func convertParametersToAPI(params []string) []map[string]string {
	result := make([]map[string]string, 0, len(params))
	for _, param := range params {
		result = append(result, map[string]string{
			"type": "text",
			"text": param,
		})
	}
	return result
}
