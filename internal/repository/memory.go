package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"medirural/internal/domain"
)

// MemoryStore объединённое in-memory хранилище: каталог, заказы и пользователи
type MemoryStore struct {
	mu        sync.RWMutex
	seq       int64
	medicines map[string]domain.Medicine
	orders    map[string]domain.Order
	orderSeq  map[string]int64
	users     map[string]domain.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		medicines: make(map[string]domain.Medicine),
		orders:    make(map[string]domain.Order),
		orderSeq:  make(map[string]int64),
		users:     make(map[string]domain.User),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var _ MedicineRepository = (*MemoryStore)(nil)

// MedicineRepository implementation
func (m *MemoryStore) Create(ctx context.Context, med *domain.Medicine) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if med.ID == "" {
		med.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if med.CreatedAt.IsZero() {
		med.CreatedAt = now
	}
	med.UpdatedAt = now
	m.medicines[med.ID] = *med
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Medicine, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	med, ok := m.medicines[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := med
	return &cp, nil
}

func (m *MemoryStore) GetMany(ctx context.Context, ids []string) (map[string]domain.Medicine, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make(map[string]domain.Medicine, len(ids))
	for _, id := range ids {
		if med, ok := m.medicines[id]; ok {
			out[id] = med
		}
	}
	return out, nil
}

func (m *MemoryStore) FindByName(ctx context.Context, name string) (*domain.Medicine, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	for _, med := range m.medicines {
		if strings.EqualFold(med.Name, name) {
			cp := med
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Update(ctx context.Context, med *domain.Medicine) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	old, ok := m.medicines[med.ID]
	if !ok {
		return ErrNotFound
	}
	med.CreatedAt = old.CreatedAt
	med.UpdatedAt = time.Now().UTC()
	m.medicines[med.ID] = *med
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.medicines[id]; !ok {
		return ErrNotFound
	}
	delete(m.medicines, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f MedicineFilter) ([]domain.Medicine, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Medicine, 0)
	for _, med := range m.medicines {
		if matchesMedicine(med, f) {
			out = append(out, med)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *MemoryStore) Categories(ctx context.Context) ([]string, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, med := range m.medicines {
		if med.Category == "" {
			continue
		}
		if _, ok := seen[med.Category]; ok {
			continue
		}
		seen[med.Category] = struct{}{}
		out = append(out, med.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) AdjustStock(ctx context.Context, id string, delta int64) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	med, ok := m.medicines[id]
	if !ok {
		return ErrNotFound
	}
	if med.Stock+delta < 0 {
		return ErrInsufficientStock
	}
	med.Stock += delta
	med.UpdatedAt = time.Now().UTC()
	m.medicines[id] = med
	return nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	mo.store.seq++
	mo.store.orderSeq[o.ID] = mo.store.seq
	mo.store.orders[o.ID] = o.Clone()
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o.Clone()
	return &cp, nil
}

func (mo *MemoryOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0)
	for _, o := range mo.store.orders {
		if matchesOrder(o, f) {
			out = append(out, o.Clone())
		}
	}
	seq := mo.store.orderSeq
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return seq[out[i].ID] > seq[out[j].ID]
	})
	return out, nil
}

func (mo *MemoryOrders) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) (*domain.Order, error) {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o, ok := mo.store.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if o.Status != from {
		return nil, ErrConflict
	}
	o.Status = to
	o.UpdatedAt = at
	mo.store.orders[id] = o
	cp := o.Clone()
	return &cp, nil
}

func (mo *MemoryOrders) DueSubscriptions(ctx context.Context, now time.Time, limit int) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0)
	for _, o := range mo.store.orders {
		if !o.IsSubscription || o.SubscriptionDetails == nil || o.Status == domain.OrderStatusCancelled {
			continue
		}
		if o.SubscriptionDetails.NextDeliveryDate.After(now) {
			continue
		}
		out = append(out, o.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubscriptionDetails.NextDeliveryDate.Before(out[j].SubscriptionDetails.NextDeliveryDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (mo *MemoryOrders) ClaimSubscription(ctx context.Context, id string, expected, next time.Time) (bool, error) {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o, ok := mo.store.orders[id]
	if !ok {
		return false, ErrNotFound
	}
	if o.SubscriptionDetails == nil || !o.SubscriptionDetails.NextDeliveryDate.Equal(expected) {
		return false, nil
	}
	o = o.Clone()
	o.SubscriptionDetails.NextDeliveryDate = next
	o.UpdatedAt = time.Now().UTC()
	mo.store.orders[id] = o
	return true, nil
}

// UserRepository implementation on wrapper type
type MemoryUsers struct{ store *MemoryStore }

func NewMemoryUsers(store *MemoryStore) *MemoryUsers { return &MemoryUsers{store: store} }

var _ UserRepository = (*MemoryUsers)(nil)

func (mu *MemoryUsers) Create(ctx context.Context, u *domain.User) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	for _, existing := range mu.store.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	mu.store.users[u.ID] = u.Clone()
	return nil
}

func (mu *MemoryUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	u, ok := mu.store.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := u.Clone()
	return &cp, nil
}

func (mu *MemoryUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	for _, u := range mu.store.users {
		if u.Email == email {
			cp := u.Clone()
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (mu *MemoryUsers) GetMany(ctx context.Context, ids []string) (map[string]domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	out := make(map[string]domain.User, len(ids))
	for _, id := range ids {
		if u, ok := mu.store.users[id]; ok {
			out[id] = u.Clone()
		}
	}
	return out, nil
}

// Update сохраняет профильные поля; счётчик заказов и рецепты меняются отдельными методами
func (mu *MemoryUsers) Update(ctx context.Context, u *domain.User) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	old, ok := mu.store.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	updated := old.Clone()
	updated.Name = u.Name
	updated.Phone = u.Phone
	updated.Address = u.Address
	updated.SubscriptionPreferences = u.SubscriptionPreferences
	if u.PasswordHash != "" {
		updated.PasswordHash = u.PasswordHash
	}
	updated.UpdatedAt = time.Now().UTC()
	mu.store.users[u.ID] = updated
	*u = updated.Clone()
	return nil
}

func (mu *MemoryUsers) IncrementOrderCount(ctx context.Context, id string) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	u, ok := mu.store.users[id]
	if !ok {
		return ErrNotFound
	}
	u = u.Clone()
	u.OrderCount++
	mu.store.users[id] = u
	return nil
}

func (mu *MemoryUsers) AddPrescription(ctx context.Context, userID string, p domain.Prescription) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	u, ok := mu.store.users[userID]
	if !ok {
		return ErrNotFound
	}
	u = u.Clone()
	u.Prescriptions = append(u.Prescriptions, p)
	u.UpdatedAt = time.Now().UTC()
	mu.store.users[userID] = u
	return nil
}

func (mu *MemoryUsers) UpdatePrescription(ctx context.Context, userID string, p domain.Prescription) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	u, ok := mu.store.users[userID]
	if !ok {
		return ErrNotFound
	}
	u = u.Clone()
	for i := range u.Prescriptions {
		if u.Prescriptions[i].ID == p.ID {
			u.Prescriptions[i] = p
			u.UpdatedAt = time.Now().UTC()
			mu.store.users[userID] = u
			return nil
		}
	}
	return ErrNotFound
}

func (mu *MemoryUsers) WithPendingPrescriptions(ctx context.Context) ([]domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	out := make([]domain.User, 0)
	for _, u := range mu.store.users {
		for _, p := range u.Prescriptions {
			if p.Status == domain.PrescriptionPending {
				out = append(out, u.Clone())
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// already inside a transaction: the outer call holds the lock and owns rollback
	if isTx(ctx) {
		return fn(ctx)
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	snap := tx.store.snapshot()
	ctx = context.WithValue(ctx, txKey{}, true)
	if err := fn(ctx); err != nil {
		tx.store.restore(snap)
		return err
	}
	return nil
}

type memorySnapshot struct {
	seq       int64
	medicines map[string]domain.Medicine
	orders    map[string]domain.Order
	orderSeq  map[string]int64
	users     map[string]domain.User
}

// stored values are never mutated in place, so shallow map copies are enough
func (m *MemoryStore) snapshot() memorySnapshot {
	s := memorySnapshot{
		seq:       m.seq,
		medicines: make(map[string]domain.Medicine, len(m.medicines)),
		orders:    make(map[string]domain.Order, len(m.orders)),
		orderSeq:  make(map[string]int64, len(m.orderSeq)),
		users:     make(map[string]domain.User, len(m.users)),
	}
	for k, v := range m.medicines {
		s.medicines[k] = v
	}
	for k, v := range m.orders {
		s.orders[k] = v
	}
	for k, v := range m.orderSeq {
		s.orderSeq[k] = v
	}
	for k, v := range m.users {
		s.users[k] = v
	}
	return s
}

func (m *MemoryStore) restore(s memorySnapshot) {
	m.seq = s.seq
	m.medicines = s.medicines
	m.orders = s.orders
	m.orderSeq = s.orderSeq
	m.users = s.users
}
