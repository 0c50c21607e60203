package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"medirural/internal/domain"
	"medirural/internal/repository"
)

// OrderEventPublisher получает уведомления после фиксации транзакции
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, o domain.Order) error
	PublishOrderStatusChanged(ctx context.Context, o domain.Order, from domain.OrderStatus) error
}

// OrderService реализует жизненный цикл заказа: оформление, статусы, ролевые выборки
type OrderService struct {
	medicines  repository.MedicineRepository
	orders     repository.OrderRepository
	users      repository.UserRepository
	tx         repository.TxManager
	logger     *logrus.Logger
	publishers []OrderEventPublisher
	validate   *validator.Validate
	now        func() time.Time
}

func NewOrderService(
	medicines repository.MedicineRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	tx repository.TxManager,
	logger *logrus.Logger,
	publishers ...OrderEventPublisher,
) *OrderService {
	return &OrderService{
		medicines:  medicines,
		orders:     orders,
		users:      users,
		tx:         tx,
		logger:     logger,
		publishers: publishers,
		validate:   newValidator(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// priceTolerance допустимое расхождение цены и суммы с клиентом
var priceTolerance = decimal.NewFromFloat(0.01)

type OrderLineInput struct {
	MedicineID string
	Quantity   int64
	UnitPrice  float64
}

type CreateOrderInput struct {
	Items         []OrderLineInput
	Shipping      domain.Shipping
	PaymentMethod domain.PaymentMethod
	// Subscription nil для разового заказа
	Subscription *domain.Duration
	// TotalAmount сумма, посчитанная клиентом; только сверяется
	TotalAmount *float64
}

// CreateOrder проверяет наличие и цены, атомарно списывает запас и создаёт заказ
func (s *OrderService) CreateOrder(ctx context.Context, actor domain.Actor, in CreateOrderInput) (*domain.Order, error) {
	if actor.UserID == "" {
		return nil, &AuthenticationError{}
	}
	created, err := s.placeOrder(ctx, actor.UserID, in, "")
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"order_id":     created.ID,
		"user_id":      created.UserID,
		"total_amount": created.TotalAmount,
		"items_count":  len(created.Items),
		"subscription": created.IsSubscription,
	}).Info("Order created")
	s.publishCreated(ctx, *created)
	return created, nil
}

func (s *OrderService) validateOrderInput(in CreateOrderInput) *ValidationError {
	verr := &ValidationError{}
	if len(in.Items) == 0 {
		verr.add("items", "at least one item is required")
	}
	for i, it := range in.Items {
		prefix := "items[" + strconv.Itoa(i) + "]"
		if it.MedicineID == "" {
			verr.add(prefix+".medicineId", "is required")
		}
		if it.Quantity < 1 {
			verr.add(prefix+".quantity", "must be at least 1")
		}
		if it.UnitPrice < 0 {
			verr.add(prefix+".unitPrice", "must not be negative")
		}
	}
	collectValidation(verr, "shipping", s.validate.Struct(in.Shipping))
	if !in.PaymentMethod.Valid() {
		verr.add("paymentMethod", "must be one of cash, card, upi")
	}
	if in.Subscription != nil && !in.Subscription.Valid() {
		verr.add("subscriptionDetails.duration", "must be one of 7days, 1month")
	}
	if in.TotalAmount != nil && *in.TotalAmount < 0 {
		verr.add("totalAmount", "must not be negative")
	}
	return verr
}

// placeOrder общий путь для оформления и продления подписки. Присоединяется к внешней транзакции.
func (s *OrderService) placeOrder(ctx context.Context, userID string, in CreateOrderInput, sourceOrder string) (*domain.Order, error) {
	var created *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// input and catalog field errors are reported together
		verr := s.validateOrderInput(in)
		ids := make([]string, 0, len(in.Items))
		for _, it := range in.Items {
			if it.MedicineID != "" {
				ids = append(ids, it.MedicineID)
			}
		}
		catalog, err := s.medicines.GetMany(ctx, ids)
		if err != nil {
			return err
		}

		items := make([]domain.OrderItem, 0, len(in.Items))
		requested := make(map[string]int64)
		order := make([]string, 0, len(in.Items))
		total := decimal.Zero
		totalKnown := true
		for i, it := range in.Items {
			if it.MedicineID == "" {
				totalKnown = false
				continue
			}
			med, ok := catalog[it.MedicineID]
			if !ok {
				return &NotFoundError{Entity: "medicine", ID: it.MedicineID}
			}
			if it.Quantity < 1 {
				totalKnown = false
			}
			price := decimal.NewFromFloat(med.Price)
			if decimal.NewFromFloat(it.UnitPrice).Sub(price).Abs().GreaterThan(priceTolerance) {
				verr.add("items["+strconv.Itoa(i)+"].unitPrice", fmt.Sprintf("does not match current price %.2f", med.Price))
			}
			if _, seen := requested[med.ID]; !seen {
				order = append(order, med.ID)
			}
			requested[med.ID] += it.Quantity
			total = total.Add(price.Mul(decimal.NewFromInt(it.Quantity)))
			items = append(items, domain.OrderItem{MedicineID: med.ID, Price: med.Price, Quantity: it.Quantity})
		}
		total = total.Round(2)
		if totalKnown && in.TotalAmount != nil && *in.TotalAmount >= 0 &&
			decimal.NewFromFloat(*in.TotalAmount).Sub(total).Abs().GreaterThan(priceTolerance) {
			verr.add("totalAmount", "does not match computed total "+total.StringFixed(2))
		}
		if err := verr.orNil(); err != nil {
			return err
		}
		for _, id := range order {
			if med := catalog[id]; med.Stock < requested[id] {
				return &StockError{MedicineID: id, Name: med.Name, Requested: requested[id], Available: med.Stock}
			}
		}

		for _, id := range order {
			if err := s.medicines.AdjustStock(ctx, id, -requested[id]); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					med := catalog[id]
					return &StockError{MedicineID: id, Name: med.Name, Requested: requested[id], Available: med.Stock}
				}
				if errors.Is(err, repository.ErrNotFound) {
					return &NotFoundError{Entity: "medicine", ID: id}
				}
				return fmt.Errorf("adjust stock: %w", err)
			}
		}

		now := s.now()
		o := domain.Order{
			ID:             uuid.NewString(),
			UserID:         userID,
			Items:          items,
			TotalAmount:    total.InexactFloat64(),
			Status:         domain.OrderStatusPending,
			Shipping:       in.Shipping,
			PaymentDetails: domain.PaymentDetails{Method: in.PaymentMethod},
			SourceOrderID:  sourceOrder,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if in.Subscription != nil {
			o.IsSubscription = true
			o.SubscriptionDetails = domain.NewSubscriptionDetails(*in.Subscription, now)
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := s.users.IncrementOrderCount(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &NotFoundError{Entity: "user", ID: userID}
			}
			return fmt.Errorf("increment order count: %w", err)
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SetStatus переводит заказ по ребру машины состояний с проверкой роли
func (s *OrderService) SetStatus(ctx context.Context, actor domain.Actor, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	if !to.Valid() {
		return nil, fieldError("status", "unknown order status")
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// only admins may learn that an id does not exist
			if actor.Role != domain.RoleAdmin {
				return nil, &AuthorizationError{}
			}
			return nil, &NotFoundError{Entity: "order", ID: orderID}
		}
		return nil, err
	}
	if err := s.authorizeTransition(ctx, actor, o, to); err != nil {
		return nil, err
	}
	from := o.Status
	if !from.CanTransition(to) {
		return nil, &InvalidTransitionError{Current: from, Requested: to}
	}

	var updated *domain.Order
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		u, err := s.orders.UpdateStatus(ctx, orderID, from, to, s.now())
		if errors.Is(err, repository.ErrConflict) {
			current := from
			if fresh, gerr := s.orders.GetByID(ctx, orderID); gerr == nil {
				current = fresh.Status
			}
			return &InvalidTransitionError{Current: current, Requested: to}
		}
		if err != nil {
			return err
		}
		if to == domain.OrderStatusCancelled {
			if err := s.restoreStock(ctx, u); err != nil {
				return err
			}
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"from":     from,
		"to":       to,
		"actor":    actor.UserID,
		"role":     actor.Role,
	}).Info("Order status changed")
	s.publishStatusChanged(ctx, *updated, from)
	return updated, nil
}

func (s *OrderService) authorizeTransition(ctx context.Context, actor domain.Actor, o *domain.Order, to domain.OrderStatus) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleSupplier:
		pincode, err := s.supplierPincode(ctx, actor)
		if err != nil {
			return err
		}
		if pincode == "" || o.Shipping.Pincode != pincode {
			return &AuthorizationError{}
		}
		return nil
	case domain.RoleCustomer:
		if o.UserID != actor.UserID || to != domain.OrderStatusCancelled {
			return &AuthorizationError{}
		}
		return nil
	}
	return &AuthorizationError{}
}

// restoreStock возвращает позиции отменённого заказа на склад; удалённые лекарства пропускаются
func (s *OrderService) restoreStock(ctx context.Context, o *domain.Order) error {
	for _, it := range o.Items {
		err := s.medicines.AdjustStock(ctx, it.MedicineID, it.Quantity)
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.WithFields(logrus.Fields{"order_id": o.ID, "medicine_id": it.MedicineID}).
				Warn("Medicine no longer in catalog, stock not restored")
			continue
		}
		if err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
	}
	return nil
}

func (s *OrderService) supplierPincode(ctx context.Context, actor domain.Actor) (string, error) {
	u, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", &AuthorizationError{}
		}
		return "", err
	}
	return u.Address.Pincode, nil
}

func (s *OrderService) publishCreated(ctx context.Context, o domain.Order) {
	for _, p := range s.publishers {
		if err := p.PublishOrderCreated(ctx, o); err != nil {
			s.logger.WithError(err).WithField("order_id", o.ID).Warn("Failed to publish order created event")
		}
	}
}

func (s *OrderService) publishStatusChanged(ctx context.Context, o domain.Order, from domain.OrderStatus) {
	for _, p := range s.publishers {
		if err := p.PublishOrderStatusChanged(ctx, o, from); err != nil {
			s.logger.WithError(err).WithField("order_id", o.ID).Warn("Failed to publish status changed event")
		}
	}
}
