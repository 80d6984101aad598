package usecase

import (
	"errors"
	"fmt"
)

// DomainError é devolvida para as rotas administrativas (400/404/409).
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError indica falha de infraestrutura nas rotas administrativas (500).
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ValidationError é recuperável: no fluxo vira um novo pedido ao usuário.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsValidationError(err error) bool {
	var ve ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var vp *ValidationError
	return errors.As(err, &vp)
}

// StoreError envolve falhas de leitura/escrita no banco ou no estado da conversa.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// NotFoundError: mensagem de um telefone sem cliente ativo no fluxo de campanha.
type NotFoundError struct {
	Phone string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("nenhum cliente ativo para o telefone %s", e.Phone)
}

func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
