package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"medirural/internal/domain"
	"medirural/internal/repository"
)

// MedicineService инкапсулирует бизнес-логику вокруг каталога
type MedicineService struct {
	repo   repository.MedicineRepository
	logger *logrus.Logger
}

func NewMedicineService(repo repository.MedicineRepository, logger *logrus.Logger) *MedicineService {
	return &MedicineService{repo: repo, logger: logger}
}

type MedicineInput struct {
	Name         string
	Description  string
	Price        float64
	Stock        int64
	Category     string
	Manufacturer string
	ExpiryDate   time.Time
	ImageURL     string
}

func (in MedicineInput) validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		verr.add("name", "is required")
	}
	if in.Price < 0 {
		verr.add("price", "must not be negative")
	}
	if in.Stock < 0 {
		verr.add("stock", "must not be negative")
	}
	return verr.orNil()
}

func (in MedicineInput) apply(m *domain.Medicine) {
	m.Name = strings.TrimSpace(in.Name)
	m.Description = in.Description
	m.Price = in.Price
	m.Stock = in.Stock
	m.Category = strings.TrimSpace(in.Category)
	m.Manufacturer = in.Manufacturer
	m.ExpiryDate = in.ExpiryDate
	m.ImageURL = in.ImageURL
}

func requireRole(actor domain.Actor, roles ...domain.Role) error {
	if !actor.Is(roles...) {
		return &AuthorizationError{}
	}
	return nil
}

func medicineNotFound(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: "medicine", ID: id}
	}
	return err
}

func (s *MedicineService) Create(ctx context.Context, actor domain.Actor, in MedicineInput) (*domain.Medicine, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	m := domain.Medicine{ID: uuid.NewString()}
	in.apply(&m)
	if err := s.repo.Create(ctx, &m); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"medicine_id": m.ID, "name": m.Name}).Info("Medicine created")
	return &m, nil
}

func (s *MedicineService) Get(ctx context.Context, id string) (*domain.Medicine, error) {
	if id == "" {
		return nil, fieldError("id", "is required")
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, medicineNotFound(id, err)
	}
	return m, nil
}

func (s *MedicineService) Update(ctx context.Context, actor domain.Actor, id string, in MedicineInput) (*domain.Medicine, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, medicineNotFound(id, err)
	}
	in.apply(m)
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, medicineNotFound(id, err)
	}
	return m, nil
}

// UpdateStock выставляет абсолютный остаток; доступно админу и поставщику
func (s *MedicineService) UpdateStock(ctx context.Context, actor domain.Actor, id string, stock int64) (*domain.Medicine, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleSupplier); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, fieldError("stock", "must not be negative")
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, medicineNotFound(id, err)
	}
	if err := s.repo.AdjustStock(ctx, id, stock-m.Stock); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			// stock moved under us: a concurrent order took more than the new level allows
			return nil, &ConflictError{Reason: "stock changed concurrently, retry"}
		}
		return nil, medicineNotFound(id, err)
	}
	s.logger.WithFields(logrus.Fields{"medicine_id": id, "stock": stock, "actor": actor.UserID}).Info("Stock updated")
	return s.repo.GetByID(ctx, id)
}

func (s *MedicineService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return medicineNotFound(id, err)
	}
	return nil
}

func (s *MedicineService) List(ctx context.Context, f repository.MedicineFilter) ([]domain.Medicine, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, fieldError("min_price", "must not exceed max_price")
	}
	return s.repo.List(ctx, f)
}

func (s *MedicineService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}
