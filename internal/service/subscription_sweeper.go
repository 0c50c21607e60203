package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"medirural/internal/domain"
	"medirural/internal/repository"
)

var errClaimLost = errors.New("subscription already claimed")

// SubscriptionSweeper периодически создаёт заказы-продления для подписок с наступившей датой доставки
type SubscriptionSweeper struct {
	orders    repository.OrderRepository
	medicines repository.MedicineRepository
	tx        repository.TxManager
	placer    *OrderService
	logger    *logrus.Logger
	interval  time.Duration
	batch     int
	now       func() time.Time
}

func NewSubscriptionSweeper(orderSvc *OrderService, interval time.Duration, batch int) *SubscriptionSweeper {
	return &SubscriptionSweeper{
		orders:    orderSvc.orders,
		medicines: orderSvc.medicines,
		tx:        orderSvc.tx,
		placer:    orderSvc,
		logger:    orderSvc.logger,
		interval:  interval,
		batch:     batch,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run крутит обход до отмены ctx. Нулевой интервал отключает обход.
func (s *SubscriptionSweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Subscription sweep disabled")
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.logger.WithField("interval", s.interval.String()).Info("Subscription sweep started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.WithError(err).Error("Subscription sweep failed")
			}
		}
	}
}

// SweepOnce обрабатывает одну пачку просроченных подписок и возвращает число созданных заказов
func (s *SubscriptionSweeper) SweepOnce(ctx context.Context) (int, error) {
	due, err := s.orders.DueSubscriptions(ctx, s.now(), s.batch)
	if err != nil {
		return 0, err
	}
	renewed := 0
	for _, parent := range due {
		child, err := s.renew(ctx, parent)
		switch {
		case errors.Is(err, errClaimLost):
			s.logger.WithField("order_id", parent.ID).Debug("Subscription claimed by another worker")
		case permanentRenewalError(err):
			// retrying cannot help, move the schedule on so the batch is not blocked
			s.skip(ctx, parent, err)
		case err != nil:
			// the claim rolled back with the order, the next sweep retries
			s.logger.WithError(err).WithField("order_id", parent.ID).Warn("Subscription renewal failed")
		default:
			renewed++
			s.logger.WithFields(logrus.Fields{
				"order_id":      child.ID,
				"source_order":  parent.ID,
				"next_delivery": nextDelivery(parent),
			}).Info("Subscription renewed")
			s.placer.publishCreated(ctx, *child)
		}
	}
	return renewed, nil
}

// permanentRenewalError ошибки, которые не исчезнут при повторе: удалённое лекарство, невалидные данные заказа
func permanentRenewalError(err error) bool {
	var nf *NotFoundError
	var verr *ValidationError
	return errors.As(err, &nf) || errors.As(err, &verr)
}

func (s *SubscriptionSweeper) skip(ctx context.Context, parent domain.Order, cause error) {
	next := nextDelivery(parent)
	ok, err := s.orders.ClaimSubscription(ctx, parent.ID, parent.SubscriptionDetails.NextDeliveryDate, next)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", parent.ID).Error("Failed to skip subscription delivery")
		return
	}
	if ok {
		s.logger.WithError(cause).WithFields(logrus.Fields{
			"order_id":      parent.ID,
			"next_delivery": next,
		}).Warn("Subscription delivery skipped")
	}
}

func nextDelivery(parent domain.Order) time.Time {
	sd := parent.SubscriptionDetails
	return sd.Duration.NextAfter(parent.CreatedAt, sd.NextDeliveryDate)
}

func (s *SubscriptionSweeper) renew(ctx context.Context, parent domain.Order) (*domain.Order, error) {
	if parent.SubscriptionDetails == nil {
		return nil, errClaimLost
	}
	expected := parent.SubscriptionDetails.NextDeliveryDate
	next := nextDelivery(parent)

	var child *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.orders.ClaimSubscription(ctx, parent.ID, expected, next)
		if err != nil {
			return err
		}
		if !ok {
			return errClaimLost
		}

		ids := make([]string, 0, len(parent.Items))
		for _, it := range parent.Items {
			ids = append(ids, it.MedicineID)
		}
		catalog, err := s.medicines.GetMany(ctx, ids)
		if err != nil {
			return err
		}
		in := CreateOrderInput{
			Items:         make([]OrderLineInput, 0, len(parent.Items)),
			Shipping:      parent.Shipping,
			PaymentMethod: parent.PaymentDetails.Method,
		}
		for _, it := range parent.Items {
			in.Items = append(in.Items, OrderLineInput{
				MedicineID: it.MedicineID,
				Quantity:   it.Quantity,
				UnitPrice:  catalog[it.MedicineID].Price,
			})
		}
		child, err = s.placer.placeOrder(ctx, parent.UserID, in, parent.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return child, nil
}
