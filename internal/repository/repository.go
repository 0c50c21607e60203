package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"medirural/internal/domain"
)

var (
	// ErrNotFound возвращается, когда сущность не найдена
	ErrNotFound = errors.New("not found")
	// ErrDuplicate нарушение уникального ключа (email)
	ErrDuplicate = errors.New("duplicate key")
	// ErrInsufficientStock условное списание не прошло: на складе меньше, чем нужно
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConflict сохранённое состояние уже не совпадает с ожидаемым
	ErrConflict = errors.New("state conflict")
)

// MedicineFilter параметры фильтрации каталога
type MedicineFilter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// MedicineRepository интерфейс репозитория каталога
type MedicineRepository interface {
	Create(ctx context.Context, m *domain.Medicine) error
	GetByID(ctx context.Context, id string) (*domain.Medicine, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Medicine, error)
	FindByName(ctx context.Context, name string) (*domain.Medicine, error)
	Update(ctx context.Context, m *domain.Medicine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f MedicineFilter) ([]domain.Medicine, error)
	Categories(ctx context.Context) ([]string, error)
	// AdjustStock атомарно меняет остаток на delta; остаток не может уйти ниже нуля
	AdjustStock(ctx context.Context, id string, delta int64) error
}

// OrderFilter выборка заказов для ролевых представлений. Пустые поля не фильтруют.
type OrderFilter struct {
	UserID         string
	Pincode        string
	Status         domain.OrderStatus
	IsSubscription *bool
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// List возвращает заказы, новые первыми
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	// UpdateStatus меняет статус, только если сохранённый статус равен from
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) (*domain.Order, error)
	// DueSubscriptions активные подписки с nextDeliveryDate <= now
	DueSubscriptions(ctx context.Context, now time.Time, limit int) ([]domain.Order, error)
	// ClaimSubscription сдвигает nextDeliveryDate, только если он всё ещё равен expected
	ClaimSubscription(ctx context.Context, id string, expected, next time.Time) (bool, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	IncrementOrderCount(ctx context.Context, id string) error
	AddPrescription(ctx context.Context, userID string, p domain.Prescription) error
	UpdatePrescription(ctx context.Context, userID string, p domain.Prescription) error
	WithPendingPrescriptions(ctx context.Context) ([]domain.User, error)
}

// TxManager абстракция транзакции. Вложенные вызовы присоединяются к внешней транзакции.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func matchesMedicine(m domain.Medicine, f MedicineFilter) bool {
	if f.Search != "" && !containsIgnoreCase(m.Name, f.Search) &&
		!containsIgnoreCase(m.Category, f.Search) && !containsIgnoreCase(m.Manufacturer, f.Search) {
		return false
	}
	if f.Category != "" && m.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && m.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && m.Price > *f.MaxPrice {
		return false
	}
	return true
}

func matchesOrder(o domain.Order, f OrderFilter) bool {
	if f.UserID != "" && o.UserID != f.UserID {
		return false
	}
	if f.Pincode != "" && o.Shipping.Pincode != f.Pincode {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.IsSubscription != nil && o.IsSubscription != *f.IsSubscription {
		return false
	}
	return true
}
