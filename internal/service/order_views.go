package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"medirural/internal/domain"
	"medirural/internal/repository"
)

// MedicineRef текущие данные каталога для отображения позиции
type MedicineRef struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderItemView позиция заказа; Price остаётся ценой на момент оформления
type OrderItemView struct {
	MedicineID string       `json:"medicineId"`
	Medicine   *MedicineRef `json:"medicine"`
	Price      float64      `json:"price"`
	Quantity   int64        `json:"quantity"`
}

type OrderView struct {
	ID                  string                      `json:"id"`
	UserID              string                      `json:"userId"`
	User                *UserRef                    `json:"user,omitempty"`
	Items               []OrderItemView             `json:"items"`
	TotalAmount         float64                     `json:"totalAmount"`
	Status              domain.OrderStatus          `json:"status"`
	Shipping            domain.Shipping             `json:"shipping"`
	PaymentDetails      domain.PaymentDetails       `json:"paymentDetails"`
	IsSubscription      bool                        `json:"isSubscription"`
	SubscriptionDetails *domain.SubscriptionDetails `json:"subscriptionDetails,omitempty"`
	SourceOrderID       string                      `json:"sourceOrder,omitempty"`
	CreatedAt           time.Time                   `json:"createdAt"`
	UpdatedAt           time.Time                   `json:"updatedAt"`
}

// OrderQuery необязательные фильтры выборки
type OrderQuery struct {
	Status         domain.OrderStatus
	IsSubscription *bool
}

// ListOrders заказы, видимые вызывающему: свои, все, или по pincode поставщика
func (s *OrderService) ListOrders(ctx context.Context, actor domain.Actor, q OrderQuery) ([]OrderView, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, fieldError("status", "unknown order status")
	}
	list, err := s.visibleOrders(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, actor, list)
}

// GetOrder одиночный заказ с той же видимостью; чужой заказ неотличим от несуществующего
func (s *OrderService) GetOrder(ctx context.Context, actor domain.Actor, id string) (*OrderView, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "order", ID: id}
		}
		return nil, err
	}
	visible, err := s.canSee(ctx, actor, o)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, &NotFoundError{Entity: "order", ID: id}
	}
	views, err := s.resolve(ctx, actor, []domain.Order{*o})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *OrderService) canSee(ctx context.Context, actor domain.Actor, o *domain.Order) (bool, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return true, nil
	case domain.RoleCustomer:
		return o.UserID == actor.UserID, nil
	case domain.RoleSupplier:
		pincode, err := s.supplierPincode(ctx, actor)
		if err != nil {
			var aerr *AuthorizationError
			if errors.As(err, &aerr) {
				return false, nil
			}
			return false, err
		}
		return pincode != "" && o.Shipping.Pincode == pincode, nil
	}
	return false, &AuthorizationError{}
}

func (s *OrderService) visibleOrders(ctx context.Context, actor domain.Actor, q OrderQuery) ([]domain.Order, error) {
	f := repository.OrderFilter{Status: q.Status, IsSubscription: q.IsSubscription}
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleCustomer:
		f.UserID = actor.UserID
	case domain.RoleSupplier:
		pincode, err := s.supplierPincode(ctx, actor)
		if err != nil {
			var aerr *AuthorizationError
			if errors.As(err, &aerr) {
				return []domain.Order{}, nil
			}
			return nil, err
		}
		if pincode == "" {
			return []domain.Order{}, nil
		}
		f.Pincode = pincode
	default:
		return nil, &AuthorizationError{}
	}
	return s.orders.List(ctx, f)
}

// resolve подставляет текущие данные лекарств, а для админа ещё и владельца заказа
func (s *OrderService) resolve(ctx context.Context, actor domain.Actor, list []domain.Order) ([]OrderView, error) {
	medIDs := make([]string, 0)
	userIDs := make([]string, 0)
	seenMed := make(map[string]bool)
	seenUser := make(map[string]bool)
	for _, o := range list {
		for _, it := range o.Items {
			if !seenMed[it.MedicineID] {
				seenMed[it.MedicineID] = true
				medIDs = append(medIDs, it.MedicineID)
			}
		}
		if !seenUser[o.UserID] {
			seenUser[o.UserID] = true
			userIDs = append(userIDs, o.UserID)
		}
	}
	meds, err := s.medicines.GetMany(ctx, medIDs)
	if err != nil {
		return nil, err
	}
	var users map[string]domain.User
	if actor.Role == domain.RoleAdmin {
		if users, err = s.users.GetMany(ctx, userIDs); err != nil {
			return nil, err
		}
	}

	out := make([]OrderView, 0, len(list))
	for _, o := range list {
		v := OrderView{
			ID:                  o.ID,
			UserID:              o.UserID,
			Items:               make([]OrderItemView, 0, len(o.Items)),
			TotalAmount:         o.TotalAmount,
			Status:              o.Status,
			Shipping:            o.Shipping,
			PaymentDetails:      o.PaymentDetails,
			IsSubscription:      o.IsSubscription,
			SubscriptionDetails: o.SubscriptionDetails,
			SourceOrderID:       o.SourceOrderID,
			CreatedAt:           o.CreatedAt,
			UpdatedAt:           o.UpdatedAt,
		}
		for _, it := range o.Items {
			iv := OrderItemView{MedicineID: it.MedicineID, Price: it.Price, Quantity: it.Quantity}
			if m, ok := meds[it.MedicineID]; ok {
				iv.Medicine = &MedicineRef{ID: m.ID, Name: m.Name, Price: m.Price}
			}
			v.Items = append(v.Items, iv)
		}
		if u, ok := users[o.UserID]; ok {
			v.User = &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
		}
		out = append(out, v)
	}
	return out, nil
}

// OrderStats сводка для панели по заказам, видимым вызывающему
type OrderStats struct {
	TotalOrders       int                        `json:"totalOrders"`
	ByStatus          map[domain.OrderStatus]int `json:"byStatus"`
	Subscriptions     int                        `json:"subscriptions"`
	Revenue           float64                    `json:"revenue"`
	AverageOrderValue float64                    `json:"averageOrderValue"`
	Today             int                        `json:"today"`
	Last7Days         int                        `json:"last7Days"`
}

func (s *OrderService) Stats(ctx context.Context, actor domain.Actor) (*OrderStats, error) {
	list, err := s.visibleOrders(ctx, actor, OrderQuery{})
	if err != nil {
		return nil, err
	}
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	st := &OrderStats{ByStatus: make(map[domain.OrderStatus]int, len(domain.AllOrderStatuses))}
	for _, status := range domain.AllOrderStatuses {
		st.ByStatus[status] = 0
	}
	revenue := decimal.Zero
	paid := 0
	for _, o := range list {
		st.TotalOrders++
		st.ByStatus[o.Status]++
		if o.IsSubscription {
			st.Subscriptions++
		}
		if o.Status != domain.OrderStatusCancelled {
			revenue = revenue.Add(decimal.NewFromFloat(o.TotalAmount))
			paid++
		}
		if !o.CreatedAt.Before(startOfDay) {
			st.Today++
		}
		if !o.CreatedAt.Before(weekAgo) {
			st.Last7Days++
		}
	}
	st.Revenue = revenue.Round(2).InexactFloat64()
	if paid > 0 {
		st.AverageOrderValue = revenue.Div(decimal.NewFromInt(int64(paid))).Round(2).InexactFloat64()
	}
	return st, nil
}
