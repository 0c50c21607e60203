package service

import (
	"fmt"
	"sort"
	"strings"

	"medirural/internal/domain"
)

// ValidationError собирает все ошибки полей запроса
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// orNil возвращает nil, если ни одно поле не провалено
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func fieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// StockError на складе меньше, чем запрошено
type StockError struct {
	MedicineID string
	Name       string
	Requested  int64
	Available  int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}

// InvalidTransitionError ребро не из машины состояний или статус уже сменился
type InvalidTransitionError struct {
	Current   domain.OrderStatus
	Requested domain.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.Current, e.Requested)
}

// AuthorizationError сообщение намеренно общее
type AuthorizationError struct{}

func (e *AuthorizationError) Error() string { return "not authorized to perform this action" }

type AuthenticationError struct{}

func (e *AuthenticationError) Error() string { return "invalid credentials" }

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }
