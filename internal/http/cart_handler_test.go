package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/catalog"
	httphandler "github.com/Felipp-EMIDES/VERANO-GELADO/internal/http"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/metrics"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/notify"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/storefront"
)

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

type noopScheduler struct{}

func (noopScheduler) AfterFunc(time.Duration, func()) notify.Timer { return noopTimer{} }

type client struct {
	t      *testing.T
	router http.Handler
	cookie *http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()
	reg := prometheus.NewRegistry()
	sessions := storefront.NewRegistry(storefront.Deps{
		Metrics:       metrics.New(reg),
		NotifyOptions: []notify.Option{notify.WithScheduler(noopScheduler{})},
	})
	t.Cleanup(sessions.Close)

	h := httphandler.NewCartHandler(sessions, catalog.Default(), "", nil)
	return &client{t: t, router: httphandler.NewRouter(httphandler.Deps{Cart: h, Gatherer: reg})}
}

func (c *client) do(r *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		r.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, r)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == httphandler.DefaultSessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) postJSON(path, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	return c.do(r)
}

func (c *client) snapshot() storefront.Snapshot {
	c.t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := c.do(r)
	require.Equal(c.t, http.StatusOK, w.Code)

	var snap storefront.Snapshot
	require.NoError(c.t, json.NewDecoder(w.Body).Decode(&snap))
	return snap
}

func TestHealth(t *testing.T) {
	c := newClient(t)

	w := c.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestPageSetsSessionCookie(t *testing.T) {
	c := newClient(t)

	w := c.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	require.NotNil(t, c.cookie)
	require.True(t, c.cookie.HttpOnly)
	body := w.Body.String()
	require.Contains(t, body, "Your cart is empty.")
	require.Contains(t, body, `id="total-value">0,00<`)
	require.Contains(t, body, `class="add-to-cart"`)
}

func TestAddItemForm(t *testing.T) {
	c := newClient(t)
	form := url.Values{"id": {"a"}, "name": {"Widget"}, "price": {"9.5"}}

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := c.do(r)
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/", w.Header().Get("Location"))
	}

	snap := c.snapshot()
	require.Len(t, snap.Cart.Rows, 1)
	require.Equal(t, 2, snap.Cart.Rows[0].Quantity)
	require.Equal(t, "19,00", snap.Total)

	page := c.do(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	require.Contains(t, page, "2 x R$ 9,50")
	require.Contains(t, page, "Widget added to cart!")
	require.Contains(t, page, "notification-success")
}

func TestAddItemJSON(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		c := newClient(t)
		w := c.postJSON("/api/cart/items", "{")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing product id", func(t *testing.T) {
		c := newClient(t)
		w := c.postJSON("/api/cart/items", `{"name":"Widget","price":"1"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid price", func(t *testing.T) {
		c := newClient(t)
		w := c.postJSON("/api/cart/items", `{"productId":"a","name":"Widget","price":"abc"}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		snap := c.snapshot()
		require.True(t, snap.Cart.Empty)
		require.NotNil(t, snap.Notification)
		require.Equal(t, notify.KindError, snap.Notification.Kind)
	})

	t.Run("exponent price", func(t *testing.T) {
		c := newClient(t)
		form := url.Values{"id": {"a"}, "name": {"Widget"}, "price": {"1e10000000"}}
		r := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.Header.Set("Accept", "application/json")

		w := c.do(r)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.True(t, c.snapshot().Cart.Empty)
	})

	t.Run("success", func(t *testing.T) {
		c := newClient(t)
		w := c.postJSON("/api/cart/items", `{"productId":"a","name":"Widget","price":"2.50"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var snap storefront.Snapshot
		require.NoError(t, json.NewDecoder(w.Body).Decode(&snap))
		require.Equal(t, "2,50", snap.Total)
	})
}

func TestRemove(t *testing.T) {
	t.Run("by index", func(t *testing.T) {
		c := newClient(t)
		c.postJSON("/api/cart/items", `{"productId":"a","name":"Widget","price":"1"}`)
		c.postJSON("/api/cart/items", `{"productId":"b","name":"Gadget","price":"2"}`)

		r := httptest.NewRequest(http.MethodPost, "/cart/items/0/remove", nil)
		w := c.do(r)
		require.Equal(t, http.StatusSeeOther, w.Code)

		snap := c.snapshot()
		require.Len(t, snap.Cart.Rows, 1)
		require.Equal(t, "b", snap.Cart.Rows[0].ID)
		require.Equal(t, "Widget removed from cart.", snap.Notification.Message)
	})

	t.Run("index out of range", func(t *testing.T) {
		c := newClient(t)
		c.postJSON("/api/cart/items", `{"productId":"a","name":"Widget","price":"1"}`)

		r := httptest.NewRequest(http.MethodPost, "/cart/items/7/remove", nil)
		r.Header.Set("Accept", "application/json")
		w := c.do(r)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Len(t, c.snapshot().Cart.Rows, 1)
	})

	t.Run("invalid index", func(t *testing.T) {
		c := newClient(t)
		w := c.do(httptest.NewRequest(http.MethodPost, "/cart/items/abc/remove", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("by product id", func(t *testing.T) {
		c := newClient(t)
		c.postJSON("/api/cart/items", `{"productId":"a","name":"Widget","price":"1"}`)

		r := httptest.NewRequest(http.MethodDelete, "/api/cart/items/a", nil)
		r.Header.Set("Accept", "application/json")
		w := c.do(r)
		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, c.snapshot().Cart.Empty)

		r = httptest.NewRequest(http.MethodDelete, "/api/cart/items/a", nil)
		r.Header.Set("Accept", "application/json")
		require.Equal(t, http.StatusNotFound, c.do(r).Code)
	})
}

func TestCheckout(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		c := newClient(t)

		w := c.postJSON("/api/cart/checkout", "")
		require.Equal(t, http.StatusConflict, w.Code)

		snap := c.snapshot()
		require.True(t, snap.Cart.Empty)
		require.Equal(t, notify.KindError, snap.Notification.Kind)
	})

	t.Run("success", func(t *testing.T) {
		c := newClient(t)
		c.postJSON("/api/cart/items", `{"productId":"a","name":"Widget","price":"5.00"}`)

		w := c.postJSON("/api/cart/checkout", "")
		require.Equal(t, http.StatusOK, w.Code)

		snap := c.snapshot()
		require.True(t, snap.Cart.Empty)
		require.Equal(t, "0,00", snap.Total)
		require.Contains(t, snap.Notification.Message, "5,00")
	})
}

func TestDismissNotification(t *testing.T) {
	c := newClient(t)
	c.postJSON("/api/cart/items", `{"productId":"a","name":"Widget","price":"1"}`)
	n := c.snapshot().Notification
	require.NotNil(t, n)

	w := c.do(httptest.NewRequest(http.MethodPost, "/notifications/999/dismiss", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.NotNil(t, c.snapshot().Notification, "stale id must not dismiss")

	c.do(httptest.NewRequest(http.MethodPost, "/notifications/"+jsonNumber(n.ID)+"/dismiss", nil))
	require.Nil(t, c.snapshot().Notification)

	w = c.do(httptest.NewRequest(http.MethodPost, "/notifications/x/dismiss", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionsAreSeparatedByCookie(t *testing.T) {
	a := newClient(t)
	a.postJSON("/api/cart/items", `{"productId":"a","name":"Widget","price":"1"}`)

	b := &client{t: t, router: a.router}
	require.True(t, b.snapshot().Cart.Empty)
	require.False(t, a.snapshot().Cart.Empty)
}

func TestCorrelationIDHeader(t *testing.T) {
	c := newClient(t)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set(httphandler.HeaderCorrelationID, "abc-123")
	require.Equal(t, "abc-123", c.do(r).Header().Get(httphandler.HeaderCorrelationID))

	w := c.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	_, err := uuid.Parse(w.Header().Get(httphandler.HeaderCorrelationID))
	require.NoError(t, err)
}

func TestMetricsEndpoint(t *testing.T) {
	c := newClient(t)
	c.postJSON("/api/cart/items", `{"productId":"a","name":"Widget","price":"1"}`)

	w := c.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "storefront_cart_items_added_total 1")
}

func jsonNumber(id uint64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
