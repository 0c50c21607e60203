package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medirural/internal/domain"
	"medirural/internal/repository"
)

func TestCreateOrderAndLifecycle(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m1 := f.medicine(t, "M1", 10, 5)
	m2 := f.medicine(t, "M2", 5, 5)
	customer := f.user(t, domain.RoleCustomer, "")

	o, err := f.orders.CreateOrder(ctx, customer, orderInput("110001", line(m1, 2), line(m2, 1)))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if o.TotalAmount != 25 {
		t.Fatalf("expected total 25, got %v", o.TotalAmount)
	}
	if o.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending, got %v", o.Status)
	}
	if o.UserID != customer.UserID || o.IsSubscription || o.SubscriptionDetails != nil {
		t.Fatalf("unexpected order %+v", o)
	}

	// stocks decreased
	if f.stock(t, m1.ID) != 3 || f.stock(t, m2.ID) != 4 {
		t.Fatalf("stock not decreased: %v %v", f.stock(t, m1.ID), f.stock(t, m2.ID))
	}
	u, _ := f.usersDB.GetByID(ctx, customer.UserID)
	if u.OrderCount != 1 {
		t.Fatalf("order count expected 1, got %v", u.OrderCount)
	}

	for _, next := range []domain.OrderStatus{domain.OrderStatusConfirmed, domain.OrderStatusShipped, domain.OrderStatusDelivered} {
		updated, err := f.orders.SetStatus(ctx, f.admin, o.ID, next)
		if err != nil {
			t.Fatalf("set %s: %v", next, err)
		}
		if updated.Status != next {
			t.Fatalf("expected %s, got %s", next, updated.Status)
		}
	}

	_, err = f.orders.SetStatus(ctx, f.admin, o.ID, domain.OrderStatusCancelled)
	var terr *InvalidTransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if terr.Current != domain.OrderStatusDelivered || terr.Requested != domain.OrderStatusCancelled {
		t.Fatalf("unexpected transition error %+v", terr)
	}
	got, _ := f.ordersDB.GetByID(ctx, o.ID)
	if got.Status != domain.OrderStatusDelivered {
		t.Fatalf("delivered order must stay delivered, got %v", got.Status)
	}
	if len(f.pub.created) != 1 || len(f.pub.changed) != 3 {
		t.Fatalf("expected 1 created and 3 changed events, got %d %d", len(f.pub.created), len(f.pub.changed))
	}
}

func TestCreateOrder_ClientTotal(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m1 := f.medicine(t, "M1", 10, 5)
	m2 := f.medicine(t, "M2", 5, 5)
	customer := f.user(t, domain.RoleCustomer, "")

	in := orderInput("110001", line(m1, 2), line(m2, 1))
	in.TotalAmount = floatPtr(30)
	_, err := f.orders.CreateOrder(ctx, customer, in)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["totalAmount"] == "" {
		t.Fatalf("expected totalAmount validation error, got %v", err)
	}
	if f.stock(t, m1.ID) != 5 {
		t.Fatalf("rejected order must not touch stock")
	}

	in.TotalAmount = floatPtr(25.004)
	o, err := f.orders.CreateOrder(ctx, customer, in)
	if err != nil {
		t.Fatalf("total within tolerance rejected: %v", err)
	}
	if o.TotalAmount != 25 {
		t.Fatalf("server total must win, got %v", o.TotalAmount)
	}
}

func TestCreateOrder_TotalRounding(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "Syrup", 0.1, 10)
	customer := f.user(t, domain.RoleCustomer, "")

	o, err := f.orders.CreateOrder(ctx, customer, orderInput("110001", line(m, 3)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.TotalAmount != 0.3 {
		t.Fatalf("expected 0.3, got %v", o.TotalAmount)
	}
}

func TestCreateOrder_ValidationCollectsAllFields(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 5)
	customer := f.user(t, domain.RoleCustomer, "")

	in := orderInput("12a456", OrderLineInput{MedicineID: m.ID, Quantity: 0, UnitPrice: 10})
	in.Shipping.Phone = "987654321"
	in.Shipping.Email = "not-an-email"
	in.Shipping.Country = ""
	in.PaymentMethod = "bitcoin"
	bad := domain.Duration("2weeks")
	in.Subscription = &bad

	_, err := f.orders.CreateOrder(ctx, customer, in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"shipping.pincode", "shipping.phone", "shipping.email", "shipping.country", "items[0].quantity", "paymentMethod", "subscriptionDetails.duration"} {
		if verr.Fields[field] == "" {
			t.Fatalf("expected error on %s, got %v", field, verr.Fields)
		}
	}

	if _, err := f.orders.CreateOrder(ctx, customer, orderInput("110001")); !errors.As(err, &verr) || verr.Fields["items"] == "" {
		t.Fatalf("expected items error, got %v", err)
	}
}

func TestCreateOrder_PriceMustMatchCatalog(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 5)
	customer := f.user(t, domain.RoleCustomer, "")

	_, err := f.orders.CreateOrder(ctx, customer, orderInput("110001", OrderLineInput{MedicineID: m.ID, Quantity: 1, UnitPrice: 9}))
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["items[0].unitPrice"] == "" {
		t.Fatalf("expected unitPrice error, got %v", err)
	}
}

func TestCreateOrder_ShippingAndPriceErrorsTogether(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 5)
	customer := f.user(t, domain.RoleCustomer, "")

	in := orderInput("12", OrderLineInput{MedicineID: m.ID, Quantity: 1, UnitPrice: 99})
	in.TotalAmount = floatPtr(99)
	_, err := f.orders.CreateOrder(ctx, customer, in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"shipping.pincode", "items[0].unitPrice", "totalAmount"} {
		if verr.Fields[field] == "" {
			t.Fatalf("expected error on %s, got %v", field, verr.Fields)
		}
	}
	if f.stock(t, m.ID) != 5 {
		t.Fatalf("stock must be unchanged")
	}
}

func TestCreateOrder_StockSumsLines(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 3)
	customer := f.user(t, domain.RoleCustomer, "")

	_, err := f.orders.CreateOrder(ctx, customer, orderInput("110001", line(m, 2), line(m, 2)))
	var serr *StockError
	if !errors.As(err, &serr) {
		t.Fatalf("expected stock error, got %v", err)
	}
	if serr.Requested != 4 || serr.Available != 3 || serr.MedicineID != m.ID {
		t.Fatalf("unexpected stock error %+v", serr)
	}
	if f.stock(t, m.ID) != 3 {
		t.Fatalf("stock must be unchanged")
	}
	list, _ := f.ordersDB.List(ctx, repository.OrderFilter{})
	if len(list) != 0 {
		t.Fatalf("no order may be created")
	}
	u, _ := f.usersDB.GetByID(ctx, customer.UserID)
	if u.OrderCount != 0 {
		t.Fatalf("order count must be unchanged")
	}
}

func TestCreateOrder_UnknownMedicine(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	customer := f.user(t, domain.RoleCustomer, "")
	_, err := f.orders.CreateOrder(ctx, customer, orderInput("110001", OrderLineInput{MedicineID: "ghost", Quantity: 1}))
	var nerr *NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateOrder_SubscriptionSchedule(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 10)
	customer := f.user(t, domain.RoleCustomer, "")
	f.orders.now = func() time.Time { return time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC) }

	monthly := domain.Duration1Month
	in := orderInput("110001", line(m, 1))
	in.Subscription = &monthly
	o, err := f.orders.CreateOrder(ctx, customer, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !o.IsSubscription || o.SubscriptionDetails == nil {
		t.Fatalf("expected subscription")
	}
	if o.SubscriptionDetails.Frequency != domain.FrequencyMonthly {
		t.Fatalf("expected monthly, got %v", o.SubscriptionDetails.Frequency)
	}
	if want := time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC); !o.SubscriptionDetails.NextDeliveryDate.Equal(want) {
		t.Fatalf("expected %v, got %v", want, o.SubscriptionDetails.NextDeliveryDate)
	}

	weekly := domain.Duration7Days
	in.Subscription = &weekly
	o, err = f.orders.CreateOrder(ctx, customer, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d := o.SubscriptionDetails.NextDeliveryDate.Sub(o.CreatedAt); d != 7*24*time.Hour {
		t.Fatalf("expected exactly 7 days, got %v", d)
	}
}

func TestCreateOrder_PublisherFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.pub.fail = true
	m := f.medicine(t, "M1", 10, 5)
	customer := f.user(t, domain.RoleCustomer, "")
	if _, err := f.orders.CreateOrder(ctx, customer, orderInput("110001", line(m, 1))); err != nil {
		t.Fatalf("publication failure must not fail the order: %v", err)
	}
}

func TestCreateOrder_NoDeduplication(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 5)
	customer := f.user(t, domain.RoleCustomer, "")
	a, _ := f.orders.CreateOrder(ctx, customer, orderInput("110001", line(m, 1)))
	b, _ := f.orders.CreateOrder(ctx, customer, orderInput("110001", line(m, 1)))
	if a == nil || b == nil || a.ID == b.ID {
		t.Fatalf("each call must create a new order")
	}
}

func TestSetStatus_OnlyAllowedEdges(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	for _, from := range domain.AllOrderStatuses {
		for _, to := range domain.AllOrderStatuses {
			o := domain.Order{UserID: "u1", Status: from, Shipping: shippingTo("110001")}
			if err := f.ordersDB.Create(ctx, &o); err != nil {
				t.Fatal(err)
			}
			_, err := f.orders.SetStatus(ctx, f.admin, o.ID, to)
			got, _ := f.ordersDB.GetByID(ctx, o.ID)
			if from.CanTransition(to) {
				if err != nil || got.Status != to {
					t.Fatalf("%s -> %s should succeed: %v", from, to, err)
				}
				continue
			}
			var terr *InvalidTransitionError
			if !errors.As(err, &terr) {
				t.Fatalf("%s -> %s: expected invalid transition, got %v", from, to, err)
			}
			if got.Status != from {
				t.Fatalf("%s -> %s: status changed to %s", from, to, got.Status)
			}
		}
	}
}

func TestSetStatus_UnknownStatus(t *testing.T) {
	f := setup(t)
	_, err := f.orders.SetStatus(context.Background(), f.admin, "any", domain.OrderStatus("lost"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetStatus_CustomerRules(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 5)
	alice := f.user(t, domain.RoleCustomer, "")
	bob := f.user(t, domain.RoleCustomer, "")

	o, err := f.orders.CreateOrder(ctx, alice, orderInput("110001", line(m, 2)))
	if err != nil {
		t.Fatal(err)
	}

	var aerr *AuthorizationError
	if _, err := f.orders.SetStatus(ctx, bob, o.ID, domain.OrderStatusCancelled); !errors.As(err, &aerr) {
		t.Fatalf("other customer must not cancel, got %v", err)
	}
	if _, err := f.orders.SetStatus(ctx, alice, o.ID, domain.OrderStatusConfirmed); !errors.As(err, &aerr) {
		t.Fatalf("customer may only cancel, got %v", err)
	}
	if _, err := f.orders.SetStatus(ctx, bob, "missing", domain.OrderStatusCancelled); !errors.As(err, &aerr) {
		t.Fatalf("missing order must look like any other foreign order, got %v", err)
	}

	cancelled, err := f.orders.SetStatus(ctx, alice, o.ID, domain.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("own cancel: %v", err)
	}
	if cancelled.Status != domain.OrderStatusCancelled || cancelled.TotalAmount != 20 || len(cancelled.Items) != 1 {
		t.Fatalf("cancel must not touch items or total: %+v", cancelled)
	}
	if f.stock(t, m.ID) != 5 {
		t.Fatalf("stock not restored, got %v", f.stock(t, m.ID))
	}
}

func TestSetStatus_SupplierPincode(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 5)
	customer := f.user(t, domain.RoleCustomer, "")
	supplier := f.user(t, domain.RoleSupplier, "110001")
	nowhere := f.user(t, domain.RoleSupplier, "")

	near, _ := f.orders.CreateOrder(ctx, customer, orderInput("110001", line(m, 1)))
	far, _ := f.orders.CreateOrder(ctx, customer, orderInput("560001", line(m, 1)))

	if _, err := f.orders.SetStatus(ctx, supplier, near.ID, domain.OrderStatusConfirmed); err != nil {
		t.Fatalf("supplier in area: %v", err)
	}
	var aerr *AuthorizationError
	if _, err := f.orders.SetStatus(ctx, supplier, far.ID, domain.OrderStatusConfirmed); !errors.As(err, &aerr) {
		t.Fatalf("supplier outside area, got %v", err)
	}
	if _, err := f.orders.SetStatus(ctx, nowhere, near.ID, domain.OrderStatusShipped); !errors.As(err, &aerr) {
		t.Fatalf("supplier without pincode, got %v", err)
	}

	// a missing id and a foreign order look the same to a supplier
	_, errFar := f.orders.SetStatus(ctx, supplier, far.ID, domain.OrderStatusConfirmed)
	_, errMissing := f.orders.SetStatus(ctx, supplier, "no-such-order", domain.OrderStatusConfirmed)
	if !errors.As(errMissing, &aerr) || errFar.Error() != errMissing.Error() {
		t.Fatalf("supplier must not tell missing from foreign: %v vs %v", errFar, errMissing)
	}
	var nerr *NotFoundError
	if _, err := f.orders.SetStatus(ctx, f.admin, "no-such-order", domain.OrderStatusConfirmed); !errors.As(err, &nerr) {
		t.Fatalf("admin gets not found, got %v", err)
	}
}

func TestSetStatus_ConcurrentWritersOneWins(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 5)
	customer := f.user(t, domain.RoleCustomer, "")
	o, _ := f.orders.CreateOrder(ctx, customer, orderInput("110001", line(m, 1)))

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.orders.SetStatus(ctx, f.admin, o.ID, domain.OrderStatusConfirmed)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		var terr *InvalidTransitionError
		switch {
		case err == nil:
			wins++
		case errors.As(err, &terr):
			if terr.Current != domain.OrderStatusConfirmed {
				t.Fatalf("loser must see fresh status, got %v", terr.Current)
			}
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestListOrders_RoleViews(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 50)
	alice := f.user(t, domain.RoleCustomer, "")
	bob := f.user(t, domain.RoleCustomer, "")
	supplier := f.user(t, domain.RoleSupplier, "110001")
	lonely := f.user(t, domain.RoleSupplier, "999999")
	nopin := f.user(t, domain.RoleSupplier, "")

	a1, _ := f.orders.CreateOrder(ctx, alice, orderInput("110001", line(m, 1)))
	_, _ = f.orders.CreateOrder(ctx, alice, orderInput("560001", line(m, 1)))
	b1, _ := f.orders.CreateOrder(ctx, bob, orderInput("110001", line(m, 1)))

	mine, err := f.orders.ListOrders(ctx, alice, OrderQuery{})
	if err != nil || len(mine) != 2 {
		t.Fatalf("customer view: %v %d", err, len(mine))
	}
	for _, v := range mine {
		if v.UserID != alice.UserID || v.User != nil {
			t.Fatalf("customer view leaked %+v", v)
		}
	}

	area, err := f.orders.ListOrders(ctx, supplier, OrderQuery{})
	if err != nil || len(area) != 2 {
		t.Fatalf("supplier view: %v %d", err, len(area))
	}
	// newest first
	if area[0].ID != b1.ID || area[1].ID != a1.ID {
		t.Fatalf("supplier view order wrong")
	}
	for _, v := range area {
		if v.Shipping.Pincode != "110001" {
			t.Fatalf("supplier view outside area")
		}
	}

	for _, s := range []domain.Actor{lonely, nopin} {
		empty, err := f.orders.ListOrders(ctx, s, OrderQuery{})
		if err != nil || len(empty) != 0 {
			t.Fatalf("expected empty supplier view, got %v %d", err, len(empty))
		}
	}

	all, err := f.orders.ListOrders(ctx, f.admin, OrderQuery{})
	if err != nil || len(all) != 3 {
		t.Fatalf("admin view: %v %d", err, len(all))
	}
	for _, v := range all {
		if v.User == nil || v.User.Email == "" {
			t.Fatalf("admin view must resolve user: %+v", v)
		}
	}

	pending, _ := f.orders.ListOrders(ctx, f.admin, OrderQuery{Status: domain.OrderStatusConfirmed})
	if len(pending) != 0 {
		t.Fatalf("status filter failed")
	}
}

func TestListOrders_ResolvesCurrentCatalogWithoutTouchingSnapshot(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 5)
	customer := f.user(t, domain.RoleCustomer, "")
	o, _ := f.orders.CreateOrder(ctx, customer, orderInput("110001", line(m, 1)))

	if _, err := f.medicines.Update(ctx, f.admin, m.ID, MedicineInput{Name: "M1 forte", Price: 12, Stock: 4}); err != nil {
		t.Fatal(err)
	}
	v, err := f.orders.GetOrder(ctx, customer, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	it := v.Items[0]
	if it.Price != 10 || it.Medicine == nil || it.Medicine.Price != 12 || it.Medicine.Name != "M1 forte" {
		t.Fatalf("unexpected item view %+v %+v", it, it.Medicine)
	}
	if v.TotalAmount != 10 {
		t.Fatalf("total must not be recomputed")
	}

	_ = f.medicines.Delete(ctx, f.admin, m.ID)
	v, _ = f.orders.GetOrder(ctx, customer, o.ID)
	if v.Items[0].Medicine != nil {
		t.Fatalf("deleted medicine must resolve to nil")
	}
}

func TestGetOrder_InvisibleIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 5)
	alice := f.user(t, domain.RoleCustomer, "")
	bob := f.user(t, domain.RoleCustomer, "")
	supplier := f.user(t, domain.RoleSupplier, "560001")
	o, _ := f.orders.CreateOrder(ctx, alice, orderInput("110001", line(m, 1)))

	var nerr *NotFoundError
	if _, err := f.orders.GetOrder(ctx, bob, o.ID); !errors.As(err, &nerr) {
		t.Fatalf("expected not found for other customer, got %v", err)
	}
	if _, err := f.orders.GetOrder(ctx, supplier, o.ID); !errors.As(err, &nerr) {
		t.Fatalf("expected not found for other area, got %v", err)
	}
	if _, err := f.orders.GetOrder(ctx, f.admin, o.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.medicine(t, "M1", 10, 50)
	customer := f.user(t, domain.RoleCustomer, "")
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	f.orders.now = func() time.Time { return now.AddDate(0, 0, -10) }
	_, _ = f.orders.CreateOrder(ctx, customer, orderInput("110001", line(m, 1)))
	f.orders.now = func() time.Time { return now.AddDate(0, 0, -2) }
	weekly := domain.Duration7Days
	in := orderInput("110001", line(m, 2))
	in.Subscription = &weekly
	_, _ = f.orders.CreateOrder(ctx, customer, in)
	f.orders.now = func() time.Time { return now.Add(-time.Hour) }
	c, _ := f.orders.CreateOrder(ctx, customer, orderInput("110001", line(m, 3)))
	_, _ = f.orders.SetStatus(ctx, customer, c.ID, domain.OrderStatusCancelled)

	f.orders.now = func() time.Time { return now }
	st, err := f.orders.Stats(ctx, f.admin)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalOrders != 3 || st.Subscriptions != 1 || st.Today != 1 || st.Last7Days != 2 {
		t.Fatalf("unexpected counts %+v", st)
	}
	if st.ByStatus[domain.OrderStatusPending] != 2 || st.ByStatus[domain.OrderStatusCancelled] != 1 {
		t.Fatalf("unexpected status counts %+v", st.ByStatus)
	}
	if st.Revenue != 30 || st.AverageOrderValue != 15 {
		t.Fatalf("unexpected revenue %v avg %v", st.Revenue, st.AverageOrderValue)
	}
}
