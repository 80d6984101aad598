package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-profile-flow/internal/infra/queue"
)

//go:embed templates/*.html
var templatesFS embed.FS

var profileCompletedTmpl = template.Must(template.ParseFS(templatesFS, "templates/profile_completed.html"))

func NewNotifier(host string, port int, user, password, from, operator string) *Notifier {
	return &Notifier{
		From:     from,
		Operator: operator,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// NotifyProfileCompleted avisa o operador por e-mail. Sem OPERATOR_EMAIL
// configurado o evento é apenas consumido.
func (n *Notifier) NotifyProfileCompleted(ctx context.Context, p queue.ProfileCompletedPayload) error {
	if n.Operator == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := ProfileCompletedEmailData{
		Name:              p.Name,
		PhoneNumber:       p.PhoneNumber,
		DateOfBirth:       p.DateOfBirth,
		DateOfAnniversary: p.DateOfAnniversary,
		Variant:           p.Variant,
		CustomerID:        p.CustomerID,
		OccurredAt:        p.OccurredAt.Format(time.RFC3339),
	}

	var body bytes.Buffer
	if err := profileCompletedTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	name := p.Name
	if name == "" {
		name = p.PhoneNumber
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.From)
	m.SetHeader("To", n.Operator)
	m.SetHeader("Subject", fmt.Sprintf("Perfil completo: %s 🎉", name))
	m.SetBody("text/html", body.String())

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
