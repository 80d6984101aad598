package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
)

type CustomerUseCase struct {
	Repo               entity.CustomerRepositoryInterface
	DefaultCountryCode string
}

func NewCustomerUseCase(repo entity.CustomerRepositoryInterface, defaultCountryCode string) *CustomerUseCase {
	return &CustomerUseCase{Repo: repo, DefaultCountryCode: defaultCountryCode}
}

func (uc *CustomerUseCase) Create(ctx context.Context, input CreateCustomerInput) (*CustomerOutput, error) {
	errs := validateStruct(input)

	phone, err := NormalizePhone(input.PhoneNumber, uc.DefaultCountryCode)
	if err != nil && input.PhoneNumber != "" {
		errs = append(errs, ValidationError{"phone_number", "must be a valid phone number"})
	}

	dob, dobErr := optionalDate(input.DateOfBirth)
	if dobErr != nil {
		errs = append(errs, ValidationError{"date_of_birth", "must be a valid YYYY-MM-DD date"})
	}
	doa, doaErr := optionalDate(input.DateOfAnniversary)
	if doaErr != nil {
		errs = append(errs, ValidationError{"date_of_anniversary", "must be a valid YYYY-MM-DD date"})
	}

	if len(errs) > 0 {
		return nil, validationDomainError(errs)
	}

	existing, err := uc.Repo.FindActiveByPhone(ctx, phone)
	if err != nil && !errors.Is(err, entity.ErrCustomerNotFound) {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao consultar cliente: " + err.Error()}
	}
	if existing != nil {
		return nil, &DomainError{Code: "CUSTOMER_EXISTS", Message: "customer already exists for this phone number"}
	}

	customer, err := entity.NewCustomer(input.Name, phone, dob, doa)
	if err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}

	if err := uc.Repo.Create(ctx, customer); err != nil {
		if errors.Is(err, entity.ErrCustomerAlreadyExists) {
			return nil, &DomainError{Code: "CUSTOMER_EXISTS", Message: "customer already exists for this phone number"}
		}
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao salvar cliente: " + err.Error()}
	}

	out := toCustomerOutput(customer)
	return &out, nil
}

func (uc *CustomerUseCase) List(ctx context.Context) ([]CustomerOutput, error) {
	customers, err := uc.Repo.ListActive(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao listar clientes: " + err.Error()}
	}

	out := make([]CustomerOutput, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerOutput(c))
	}
	return out, nil
}

func (uc *CustomerUseCase) GetByPhone(ctx context.Context, raw string) (*CustomerOutput, error) {
	phone, err := NormalizePhone(raw, uc.DefaultCountryCode)
	if err != nil {
		return nil, validationDomainError([]ValidationError{{"mobile", "must be a valid phone number"}})
	}

	customer, err := uc.Repo.FindActiveByPhone(ctx, phone)
	if errors.Is(err, entity.ErrCustomerNotFound) {
		return nil, &DomainError{Code: "CUSTOMER_NOT_FOUND", Message: "customer not found"}
	}
	if err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: "erro ao buscar cliente: " + err.Error()}
	}

	out := toCustomerOutput(customer)
	return &out, nil
}

// Deactivate faz o soft delete; o cliente some das consultas e do disparo.
func (uc *CustomerUseCase) Deactivate(ctx context.Context, id int64) error {
	err := uc.Repo.Deactivate(ctx, id)
	if errors.Is(err, entity.ErrCustomerNotFound) {
		return &DomainError{Code: "CUSTOMER_NOT_FOUND", Message: "customer not found"}
	}
	if err != nil {
		return &TechnicalError{Code: "DB_ERROR", Message: "erro ao desativar cliente: " + err.Error()}
	}
	return nil
}

func optionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseProfileDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toCustomerOutput(c *entity.Customer) CustomerOutput {
	out := CustomerOutput{ID: c.ID, Name: c.Name, PhoneNumber: c.PhoneNumber, ProfileComplete: c.HasProfileDates()}
	if c.DateOfBirth != nil {
		out.DateOfBirth = FormatProfileDate(*c.DateOfBirth)
	}
	if c.DateOfAnniversary != nil {
		out.DateOfAnniversary = FormatProfileDate(*c.DateOfAnniversary)
	}
	return out
}
