package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"medirural/internal/auth"
	"medirural/internal/domain"
	"medirural/internal/repository"
)

type recordingPublisher struct {
	mu      sync.Mutex
	created []domain.Order
	changed []domain.OrderStatus
	fail    bool
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, o domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.created = append(p.created, o)
	return nil
}

func (p *recordingPublisher) PublishOrderStatusChanged(_ context.Context, o domain.Order, _ domain.OrderStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.changed = append(p.changed, o.Status)
	return nil
}

type fixture struct {
	store     *repository.MemoryStore
	ordersDB  *repository.MemoryOrders
	usersDB   *repository.MemoryUsers
	orders    *OrderService
	medicines *MedicineService
	accounts  *AccountService
	pub       *recordingPublisher
	admin     domain.Actor
	seq       int
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	ordersRepo := repository.NewMemoryOrders(store)
	usersRepo := repository.NewMemoryUsers(store)
	tx := repository.NewMemoryTx(store)
	logger := quietLogger()
	pub := &recordingPublisher{}
	f := &fixture{
		store:     store,
		ordersDB:  ordersRepo,
		usersDB:   usersRepo,
		orders:    NewOrderService(store, ordersRepo, usersRepo, tx, logger, pub),
		medicines: NewMedicineService(store, logger),
		accounts:  NewAccountService(usersRepo, &auth.Bcrypt{Cost: bcrypt.MinCost}, auth.NewTokenManager("test-secret", 7*24*time.Hour), logger),
		pub:       pub,
	}
	f.admin = f.user(t, domain.RoleAdmin, "")
	return f
}

// user сохраняет пользователя напрямую в репозиторий, минуя правила регистрации
func (f *fixture) user(t *testing.T, role domain.Role, pincode string) domain.Actor {
	t.Helper()
	f.seq++
	u := domain.User{
		Name:    string(role) + " user",
		Email:   fmt.Sprintf("%s-%d@example.com", role, f.seq),
		Phone:   "9876543210",
		Role:    role,
		Address: domain.Address{Pincode: pincode},
	}
	if err := f.usersDB.Create(context.Background(), &u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return domain.Actor{UserID: u.ID, Role: role, Email: u.Email}
}

func (f *fixture) medicine(t *testing.T, name string, price float64, stock int64) domain.Medicine {
	t.Helper()
	m, err := f.medicines.Create(context.Background(), f.admin, MedicineInput{Name: name, Price: price, Stock: stock, Category: "General"})
	if err != nil {
		t.Fatalf("seed medicine: %v", err)
	}
	return *m
}

func (f *fixture) stock(t *testing.T, id string) int64 {
	t.Helper()
	m, err := f.store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get medicine: %v", err)
	}
	return m.Stock
}

func shippingTo(pincode string) domain.Shipping {
	return domain.Shipping{
		Name:    "Asha Verma",
		Email:   "asha@example.com",
		Phone:   "9876543210",
		Address: "12 Main Road",
		City:    "Delhi",
		State:   "Delhi",
		Pincode: pincode,
		Country: "India",
	}
}

func line(m domain.Medicine, qty int64) OrderLineInput {
	return OrderLineInput{MedicineID: m.ID, Quantity: qty, UnitPrice: m.Price}
}

func orderInput(pincode string, lines ...OrderLineInput) CreateOrderInput {
	return CreateOrderInput{Items: lines, Shipping: shippingTo(pincode), PaymentMethod: domain.PaymentCash}
}

func floatPtr(v float64) *float64 { return &v }
