package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/pagecart/bookstore-api/internal/apperr"
	"github.com/pagecart/bookstore-api/internal/cart"
	kafkax "github.com/pagecart/bookstore-api/internal/kafka"
	"github.com/pagecart/bookstore-api/internal/pagination"
)

type Store interface {
	PlaceFromCart(ctx context.Context, o Order, cartID string) error
	Get(ctx context.Context, orderID string) (Order, error)
	ListByUser(ctx context.Context, userID string, p pagination.Page) ([]Order, int, error)
	ListItems(ctx context.Context, orderID, userID string, p pagination.Page) ([]Item, int, error)
	GetItem(ctx context.Context, orderID, itemID, userID string) (Item, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
}

// CartReader loads the checkout source. cart.Repo satisfies it.
type CartReader interface {
	GetByUser(ctx context.Context, userID string) (cart.Cart, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// StatusCache holds the latest known status per order. RedisStatusCache
// satisfies it; a nil cache disables caching.
type StatusCache interface {
	GetStatus(ctx context.Context, orderID string) (Status, bool)
	SetStatus(ctx context.Context, orderID string, status Status)
}

// Service is the checkout workflow: cart in, immutable order out.
type Service struct {
	Store       Store
	Carts       CartReader
	Placed      Publisher   // order.placed topic, optional
	StatusFeed  Publisher   // order.status_changed topic, optional
	Statuses    StatusCache // optional
	ServiceName string
	Now         func() time.Time // nil means time.Now
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Place converts the caller's cart into a PENDING order. Item prices are
// snapshotted as book price x quantity with exact decimal arithmetic, the
// total is the decimal sum of the snapshots, and the order insert plus the
// cart drain commit as one unit in the store.
func (s *Service) Place(ctx context.Context, userID, traceID string) (Order, error) {
	c, err := s.Carts.GetByUser(ctx, userID)
	if err != nil {
		return Order{}, err
	}
	if len(c.Items) == 0 {
		return Order{}, apperr.OrderProcessing("can't process an empty order")
	}

	o := Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    StatusPending,
		OrderDate: s.now(),
		Total:     decimal.Zero,
	}
	for _, ci := range c.Items {
		price := ci.BookPrice.Mul(decimal.NewFromInt(int64(ci.Quantity)))
		o.Items = append(o.Items, Item{
			ID:       uuid.NewString(),
			OrderID:  o.ID,
			BookID:   ci.BookID,
			Quantity: ci.Quantity,
			Price:    price,
		})
		o.Total = o.Total.Add(price)
	}

	if err := s.Store.PlaceFromCart(ctx, o, c.ID); err != nil {
		return Order{}, err
	}
	s.cacheStatus(ctx, o.ID, o.Status)
	s.publishPlaced(o, traceID)
	return o, nil
}

// Status answers status polls cache-first and backfills on a miss.
func (s *Service) Status(ctx context.Context, orderID string) (Status, error) {
	if s.Statuses != nil {
		if st, ok := s.Statuses.GetStatus(ctx, orderID); ok {
			return st, nil
		}
	}
	o, err := s.Store.Get(ctx, orderID)
	if err != nil {
		return "", err
	}
	s.cacheStatus(ctx, orderID, o.Status)
	return o.Status, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string, p pagination.Page) ([]Order, int, error) {
	return s.Store.ListByUser(ctx, userID, p)
}

func (s *Service) ListItems(ctx context.Context, userID, orderID string, p pagination.Page) ([]Item, int, error) {
	return s.Store.ListItems(ctx, orderID, userID, p)
}

func (s *Service) GetItem(ctx context.Context, userID, orderID, itemID string) (Item, error) {
	return s.Store.GetItem(ctx, orderID, itemID, userID)
}

// UpdateStatus is admin-only; the role gate runs before this is reached.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status Status, traceID string) (Order, error) {
	o, err := s.Store.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(o.Status, status) {
		return Order{}, apperr.Validation("illegal status transition",
			apperr.FieldError{Field: "status", Message: string(o.Status) + " -> " + string(status) + " is not allowed"})
	}
	if err := s.Store.UpdateStatus(ctx, orderID, status); err != nil {
		return Order{}, err
	}
	s.cacheStatus(ctx, orderID, status)
	s.publishStatusChanged(o.ID, o.Status, status, traceID)
	o.Status = status
	return o, nil
}

func (s *Service) cacheStatus(ctx context.Context, orderID string, status Status) {
	if s.Statuses != nil {
		s.Statuses.SetStatus(ctx, orderID, status)
	}
}

func (s *Service) publishPlaced(o Order, traceID string) {
	if s.Placed == nil {
		return
	}
	items := make([]ItemSnapshot, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemSnapshot{BookID: it.BookID, Quantity: it.Quantity, Price: it.Price.String()})
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    s.now(),
		Producer:      s.ServiceName,
		TraceID:       traceID,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(OrderPlacedPayload{
			OrderID: o.ID,
			UserID:  o.UserID,
			Items:   items,
			Total:   o.Total.String(),
		}),
	}
	s.Placed.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) publishStatusChanged(orderID string, from, to Status, traceID string) {
	if s.StatusFeed == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    s.now(),
		Producer:      s.ServiceName,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(OrderStatusChangedPayload{
			OrderID: orderID,
			From:    string(from),
			To:      string(to),
		}),
	}
	s.StatusFeed.Publish(PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
