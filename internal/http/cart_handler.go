package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/cart"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/catalog"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/storefront"
)

const DefaultSessionCookie = "storefront_session"

type CartHandler struct {
	sessions *storefront.Registry
	products []catalog.Product
	cookie   string
	title    string
	logger   *zap.Logger
}

func NewCartHandler(sessions *storefront.Registry, products []catalog.Product, cookie string, logger *zap.Logger) *CartHandler {
	if cookie == "" {
		cookie = DefaultSessionCookie
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandler{
		sessions: sessions,
		products: products,
		cookie:   cookie,
		title:    "Verano Gelado",
		logger:   logger,
	}
}

func (h *CartHandler) Page(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := renderPage(w, newPageData(h.title, h.products, s.Snapshot(), time.Now()))
	if err != nil {
		h.logger.Error("render page", zap.Error(err))
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	var body struct {
		ProductID string `json:"productId"`
		Name      string `json:"name"`
		Price     string `json:"price"`
	}
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		body.ProductID = r.PostForm.Get("id")
		body.Name = r.PostForm.Get("name")
		body.Price = r.PostForm.Get("price")
	}
	if body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	_, err := s.AddToCart(r.Context(), body.ProductID, body.Name, body.Price)
	if errors.Is(err, cart.ErrInvalidPrice) {
		h.respond(w, r, s, http.StatusUnprocessableEntity, "invalid price")
		return
	}
	h.respond(w, r, s, http.StatusOK, "")
}

func (h *CartHandler) RemoveAt(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}

	if _, err := s.RemoveAt(r.Context(), index); err != nil {
		h.respond(w, r, s, http.StatusNotFound, "item not found")
		return
	}
	h.respond(w, r, s, http.StatusOK, "")
}

func (h *CartHandler) RemoveByID(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	if _, err := s.RemoveByID(r.Context(), chi.URLParam(r, "productId")); err != nil {
		h.respond(w, r, s, http.StatusNotFound, "item not found")
		return
	}
	h.respond(w, r, s, http.StatusOK, "")
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	if _, err := s.Checkout(r.Context()); err != nil {
		h.respond(w, r, s, http.StatusConflict, "cart is empty")
		return
	}
	h.respond(w, r, s, http.StatusOK, "")
}

func (h *CartHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	s.DismissNotification(id)
	h.respond(w, r, s, http.StatusOK, "")
}

// session resolves the visitor's session from the cookie, opening a new one
// (and setting the cookie) when there is none.
func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) *storefront.Session {
	var id string
	if c, err := r.Cookie(h.cookie); err == nil {
		id = c.Value
	}

	s, created := h.sessions.GetOrOpen(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookie,
			Value:    s.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

// respond sends JSON clients the snapshot (or an error) and sends browsers
// back to the page, where the notification already tells what happened.
func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, s *storefront.Session, status int, msg string) {
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if msg != "" {
		writeError(w, status, msg)
		return
	}
	writeJSON(w, status, s.Snapshot())
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || isJSON(r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
