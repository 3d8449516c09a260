// Package storefront owns the per-visitor cart session: every action mutates
// the cart, re-renders it and then raises a notification, in that order and
// without interleaving with other actions on the same session.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/cart"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/events"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/metrics"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/notify"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/render"
)

var ErrCartEmpty = errors.New("cart is empty")

const (
	MsgCartEmpty = "Your cart is empty. Add products to complete the purchase."

	checkoutSuccess = "success"
	checkoutEmpty   = "empty"
)

func msgAdded(name string) string   { return fmt.Sprintf("%s added to cart!", name) }
func msgRemoved(name string) string { return fmt.Sprintf("%s removed from cart.", name) }
func msgRejected(name string) string {
	return fmt.Sprintf("Could not add %s: invalid price.", name)
}
func msgPurchased(total string) string {
	return fmt.Sprintf("Purchase completed! Total: R$ %s. Thank you for shopping with us!", total)
}

// Deps are shared by every session of a Registry.
type Deps struct {
	Renderer      *render.Renderer
	Publisher     events.CartEventsPublisher
	Metrics       metrics.Recorder
	Logger        *zap.Logger
	NotifyOptions []notify.Option
	Now           func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Renderer == nil {
		d.Renderer = render.NewRenderer()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = (*metrics.Metrics)(nil)
	}
	if d.Publisher == nil {
		d.Publisher = events.NewLogPublisher(d.Logger, events.NewSequenceRepository())
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type Session struct {
	id string

	mu       sync.Mutex
	store    *cart.Store
	region   *render.Region
	board    *notify.Board
	center   *notify.Center
	lastSeen time.Time

	renderer  *render.Renderer
	publisher events.CartEventsPublisher
	metrics   metrics.Recorder
	logger    *zap.Logger
	now       func() time.Time
}

func NewSession(id string, deps Deps) *Session {
	deps = deps.withDefaults()
	logger := deps.Logger.With(zap.String("session_id", id))
	board := notify.NewBoard()
	opts := append([]notify.Option{notify.WithLogger(logger)}, deps.NotifyOptions...)

	s := &Session{
		id:        id,
		store:     cart.NewStore(),
		region:    render.NewRegion(),
		board:     board,
		center:    notify.NewCenter(board, opts...),
		lastSeen:  deps.Now(),
		renderer:  deps.Renderer,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		logger:    logger,
		now:       deps.Now,
	}
	s.render()
	return s
}

func (s *Session) ID() string {
	return s.id
}

// AddToCart adds one unit of a product. An invalid price rejects the add and
// raises an error notification instead.
func (s *Session) AddToCart(ctx context.Context, productID, name, price string) (cart.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	it, err := s.store.Add(productID, name, price)
	if err != nil {
		s.logger.Warn("add to cart rejected",
			zap.String("product_id", productID),
			zap.String("price", price),
			zap.Error(err))
		s.metrics.ItemRejected()
		s.notify(msgRejected(name), notify.KindError)
		return cart.Item{}, err
	}

	s.metrics.ItemAdded()
	s.render()
	s.notify(msgAdded(name), notify.KindSuccess)
	return it, nil
}

// RemoveAt removes the row at index as currently rendered. Out of range
// indices are logged and otherwise ignored.
func (s *Session) RemoveAt(ctx context.Context, index int) (cart.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	removed, err := s.store.RemoveAt(index)
	if err != nil {
		s.logger.Warn("remove ignored", zap.Int("index", index), zap.Error(err))
		s.metrics.RemoveIgnored()
		return cart.Item{}, err
	}
	s.afterRemove(removed)
	return removed, nil
}

func (s *Session) RemoveByID(ctx context.Context, productID string) (cart.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	removed, err := s.store.RemoveByID(productID)
	if err != nil {
		s.logger.Warn("remove ignored", zap.String("product_id", productID), zap.Error(err))
		s.metrics.RemoveIgnored()
		return cart.Item{}, err
	}
	s.afterRemove(removed)
	return removed, nil
}

func (s *Session) afterRemove(removed cart.Item) {
	s.metrics.ItemRemoved()
	s.render()
	s.notify(msgRemoved(removed.Name), notify.KindInfo)
}

// Checkout simulates finalizing the purchase. It reads the total from the
// display, announces it, then clears the cart. An empty cart only raises an
// error notification.
func (s *Session) Checkout(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.store.Empty() {
		s.metrics.Checkout(checkoutEmpty)
		s.notify(MsgCartEmpty, notify.KindError)
		return "", ErrCartEmpty
	}

	total := s.region.Total()
	items := s.store.Items()
	s.notify(msgPurchased(total), notify.KindSuccess)

	s.store.Clear()
	s.render()
	s.metrics.Checkout(checkoutSuccess)

	err := s.publisher.PublishCartCheckedOut(ctx, s.id, items, events.PublishMetadata{
		CorrelationID: events.CorrelationID(ctx),
		DisplayTotal:  total,
	})
	if err != nil {
		s.logger.Warn("publish cart checked out", zap.Error(err))
	}
	return total, nil
}

// DismissNotification closes the visible notification when id still refers to it.
func (s *Session) DismissNotification(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.center.DismissID(id)
}

type Snapshot struct {
	SessionID    string               `json:"sessionId"`
	Cart         render.View          `json:"cart"`
	ItemsHTML    template.HTML        `json:"-"`
	Total        string               `json:"total"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID: s.id,
		Cart:      render.Project(s.store),
		ItemsHTML: s.region.Items(),
		Total:     s.region.Total(),
	}
	if n, ok := s.board.Visible(); ok {
		snap.Notification = &n
	}
	return snap
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close cancels any pending notification timer and releases the session's
// event sequence.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.center.Close()
	s.publisher.SessionClosed(s.id)
}

func (s *Session) markSeen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
}

func (s *Session) touch() {
	s.lastSeen = s.now()
}

func (s *Session) render() {
	if err := s.renderer.Render(s.store, s.region); err != nil {
		s.logger.Error("render cart", zap.Error(err))
	}
}

func (s *Session) notify(message string, kind notify.Kind) {
	s.center.Notify(message, kind)
	s.metrics.Notification(string(kind))
}
