package mail

import "gopkg.in/gomail.v2"

// ProfileCompletedEmailData alimenta o template enviado ao operador.
type ProfileCompletedEmailData struct {
	Name              string
	PhoneNumber       string
	DateOfBirth       string
	DateOfAnniversary string
	Variant           string
	CustomerID        int64
	OccurredAt        string
}

// sender é o subconjunto de *gomail.Dialer usado pelo Notifier.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Notifier struct {
	From     string
	Operator string
	dialer   sender
}
