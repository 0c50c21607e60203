package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"medirural/internal/domain"
	"medirural/internal/repository"
)

func subscribe(t *testing.T, f *fixture, actor domain.Actor, d domain.Duration, at time.Time, lines ...OrderLineInput) *domain.Order {
	t.Helper()
	f.orders.now = func() time.Time { return at }
	in := orderInput("110001", lines...)
	in.Subscription = &d
	o, err := f.orders.CreateOrder(context.Background(), actor, in)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	return o
}

func followOns(t *testing.T, f *fixture, parentID string) []domain.Order {
	t.Helper()
	list, _ := f.ordersDB.List(context.Background(), repository.OrderFilter{})
	out := make([]domain.Order, 0)
	for _, o := range list {
		if o.SourceOrderID == parentID {
			out = append(out, o)
		}
	}
	return out
}

func TestSweep_CreatesFollowOnAndAdvances(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 10)
	customer := f.user(t, domain.RoleCustomer, "")
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	parent := subscribe(t, f, customer, domain.Duration7Days, start, line(m, 2))

	// catalog price changes before the renewal
	if _, err := f.medicines.Update(ctx, f.admin, m.ID, MedicineInput{Name: "M1", Price: 12, Stock: 8}); err != nil {
		t.Fatal(err)
	}

	sweeper := NewSubscriptionSweeper(f.orders, time.Minute, 10)
	sweeper.now = func() time.Time { return start.AddDate(0, 0, 6) }
	if n, err := sweeper.SweepOnce(ctx); err != nil || n != 0 {
		t.Fatalf("nothing due yet: %v %d", err, n)
	}

	due := start.AddDate(0, 0, 7)
	sweeper.now = func() time.Time { return due }
	f.orders.now = func() time.Time { return due }
	n, err := sweeper.SweepOnce(ctx)
	if err != nil || n != 1 {
		t.Fatalf("sweep: %v %d", err, n)
	}

	p, _ := f.ordersDB.GetByID(ctx, parent.ID)
	if want := start.AddDate(0, 0, 14); !p.SubscriptionDetails.NextDeliveryDate.Equal(want) {
		t.Fatalf("next delivery expected %v, got %v", want, p.SubscriptionDetails.NextDeliveryDate)
	}

	children := followOns(t, f, parent.ID)
	if len(children) != 1 {
		t.Fatalf("expected one follow-on, got %d", len(children))
	}
	child := children[0]
	if child.IsSubscription || child.SubscriptionDetails != nil || child.UserID != customer.UserID {
		t.Fatalf("unexpected follow-on %+v", child)
	}
	if child.Items[0].Price != 12 || child.TotalAmount != 24 || child.Status != domain.OrderStatusPending {
		t.Fatalf("follow-on must use current prices: %+v", child)
	}
	if f.stock(t, m.ID) != 6 {
		t.Fatalf("stock expected 6, got %v", f.stock(t, m.ID))
	}
	u, _ := f.usersDB.GetByID(ctx, customer.UserID)
	if u.OrderCount != 2 {
		t.Fatalf("order count expected 2, got %v", u.OrderCount)
	}

	// same instant again: nothing left to do
	if n, _ := sweeper.SweepOnce(ctx); n != 0 {
		t.Fatalf("second sweep must not renew again")
	}
}

func TestSweep_ConcurrentWorkersClaimOnce(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 100)
	customer := f.user(t, domain.RoleCustomer, "")
	start := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	parent := subscribe(t, f, customer, domain.Duration1Month, start, line(m, 1))

	due := time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)
	f.orders.now = func() time.Time { return due }

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	for i := 0; i < 4; i++ {
		sw := NewSubscriptionSweeper(f.orders, time.Minute, 10)
		sw.now = func() time.Time { return due }
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := sw.SweepOnce(ctx)
			if err != nil {
				t.Errorf("sweep: %v", err)
			}
			mu.Lock()
			total += n
			mu.Unlock()
		}()
	}
	wg.Wait()

	if total != 1 {
		t.Fatalf("expected exactly one renewal, got %d", total)
	}
	if len(followOns(t, f, parent.ID)) != 1 {
		t.Fatalf("expected one follow-on order")
	}
	p, _ := f.ordersDB.GetByID(ctx, parent.ID)
	// counted from Jan 31, not from the clamped Feb 29
	if want := time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC); !p.SubscriptionDetails.NextDeliveryDate.Equal(want) {
		t.Fatalf("expected %v, got %v", want, p.SubscriptionDetails.NextDeliveryDate)
	}
}

func TestSweep_FailureRollsBackClaim(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 2)
	customer := f.user(t, domain.RoleCustomer, "")
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	parent := subscribe(t, f, customer, domain.Duration7Days, start, line(m, 2))
	// stock is now 0

	sweeper := NewSubscriptionSweeper(f.orders, time.Minute, 10)
	sweeper.now = func() time.Time { return start.AddDate(0, 0, 7) }
	n, err := sweeper.SweepOnce(ctx)
	if err != nil || n != 0 {
		t.Fatalf("expected no renewal: %v %d", err, n)
	}
	p, _ := f.ordersDB.GetByID(ctx, parent.ID)
	if !p.SubscriptionDetails.NextDeliveryDate.Equal(start.AddDate(0, 0, 7)) {
		t.Fatalf("claim must roll back, got %v", p.SubscriptionDetails.NextDeliveryDate)
	}
	if len(followOns(t, f, parent.ID)) != 0 {
		t.Fatalf("no follow-on expected")
	}

	// restocked: the next sweep retries
	if _, err := f.medicines.UpdateStock(ctx, f.admin, m.ID, 5); err != nil {
		t.Fatal(err)
	}
	if n, _ := sweeper.SweepOnce(ctx); n != 1 {
		t.Fatalf("retry expected to renew, got %d", n)
	}
}

func TestSweep_BrokenSubscriptionDoesNotBlockBatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	gone := f.medicine(t, "Discontinued", 10, 10)
	m := f.medicine(t, "M1", 10, 10)
	customer := f.user(t, domain.RoleCustomer, "")
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	broken := subscribe(t, f, customer, domain.Duration7Days, start, line(gone, 1))
	healthy := subscribe(t, f, customer, domain.Duration7Days, start.AddDate(0, 0, 1), line(m, 1))
	if err := f.medicines.Delete(ctx, f.admin, gone.ID); err != nil {
		t.Fatal(err)
	}

	now := start.AddDate(0, 0, 8)
	f.orders.now = func() time.Time { return now }
	sweeper := NewSubscriptionSweeper(f.orders, time.Minute, 1)
	sweeper.now = func() time.Time { return now }
	renewed := 0
	for i := 0; i < 3; i++ {
		n, err := sweeper.SweepOnce(ctx)
		if err != nil {
			t.Fatalf("sweep: %v", err)
		}
		renewed += n
	}

	if renewed != 1 || len(followOns(t, f, healthy.ID)) != 1 {
		t.Fatalf("healthy subscription must renew, renewed %d", renewed)
	}
	if len(followOns(t, f, broken.ID)) != 0 {
		t.Fatalf("broken subscription must not produce orders")
	}
	p, _ := f.ordersDB.GetByID(ctx, broken.ID)
	if want := start.AddDate(0, 0, 14); !p.SubscriptionDetails.NextDeliveryDate.Equal(want) {
		t.Fatalf("broken delivery must be skipped to %v, got %v", want, p.SubscriptionDetails.NextDeliveryDate)
	}
}

func TestSweep_SkipsCancelled(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 10)
	customer := f.user(t, domain.RoleCustomer, "")
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	parent := subscribe(t, f, customer, domain.Duration7Days, start, line(m, 1))
	if _, err := f.orders.SetStatus(ctx, customer, parent.ID, domain.OrderStatusCancelled); err != nil {
		t.Fatal(err)
	}

	sweeper := NewSubscriptionSweeper(f.orders, time.Minute, 10)
	sweeper.now = func() time.Time { return start.AddDate(0, 1, 0) }
	if n, _ := sweeper.SweepOnce(ctx); n != 0 {
		t.Fatalf("cancelled subscription must not renew")
	}
}

func TestSweep_RunStopsOnCancel(t *testing.T) {
	f := setup(t)
	sweeper := NewSubscriptionSweeper(f.orders, 10*time.Millisecond, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("sweeper did not stop")
	}

	// zero interval returns immediately
	NewSubscriptionSweeper(f.orders, 0, 10).Run(context.Background())
}
