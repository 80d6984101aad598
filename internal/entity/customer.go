package entity

import (
	"context"
	"errors"
	"strings"
	"time"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

var (
	ErrCustomerNotFound      = errors.New("cliente não encontrado")
	ErrCustomerAlreadyExists = errors.New("já existe cliente ativo com este telefone")
)

// DateLayout é o formato canônico de datas trocado com o cliente e com a API.
const DateLayout = "2006-01-02"

// Entidade: Customer
// Linhas inativas (soft delete) nunca aparecem nas consultas.
type Customer struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	PhoneNumber       string     `json:"phone_number"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	DateOfAnniversary *time.Time `json:"date_of_anniversary"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Factory
func NewCustomer(name, phone string, dob, doa *time.Time) (*Customer, error) {
	customer := &Customer{
		Name:              strings.TrimSpace(name),
		PhoneNumber:       phone,
		DateOfBirth:       dob,
		DateOfAnniversary: doa,
		IsActive:          true,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	return customer, nil
}

func (c *Customer) Validate() error {
	if c.PhoneNumber == "" {
		return errors.New("phone number is required")
	}
	return nil
}

func (c *Customer) HasProfileDates() bool {
	return c.DateOfBirth != nil && c.DateOfAnniversary != nil
}

// NeedsProfile indica se o cliente é elegível para o disparo proativo:
// tem nome e telefone, mas nenhuma das datas.
func (c *Customer) NeedsProfile() bool {
	return c.IsActive &&
		strings.TrimSpace(c.Name) != "" &&
		c.PhoneNumber != "" &&
		c.DateOfBirth == nil &&
		c.DateOfAnniversary == nil
}

type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id int64) (*Customer, error)
	FindActiveByPhone(ctx context.Context, phone string) (*Customer, error)
	ListActive(ctx context.Context) ([]*Customer, error)
	ListMissingProfile(ctx context.Context) ([]*Customer, error)
	UpdateDates(ctx context.Context, id int64, dob, doa time.Time) error
	UpdateName(ctx context.Context, id int64, name string) error
	Deactivate(ctx context.Context, id int64) error
}
