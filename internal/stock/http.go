package stock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"StockReserve/internal/catalog"
	"StockReserve/internal/reservation"
	"StockReserve/pkg/kit"
)

const (
	statusNotFound     = "Product not found"
	statusConfirmed    = "Reservation confirmed"
	statusInsufficient = "Not enough stock available"

	reservationIDHeader = "X-Reservation-Id"
	readyTimeout        = 1 * time.Second
)

type Server struct {
	Catalog      *catalog.Catalog
	Reservations *reservation.Cache
	Log          *zap.Logger

	// ReserveLimiter, when set, guards the reservation route.
	ReserveLimiter kit.Limiter

	metrics *reservationMetrics
}

type productView struct {
	ItemID                   int         `json:"itemId"`
	ItemName                 string      `json:"itemName"`
	Price                    json.Number `json:"price"`
	InitialAvailableQuantity int         `json:"initialAvailableQuantity"`
}

type productDetailView struct {
	productView
	CurrentQuantity int `json:"currentQuantity"`
}

type statusResp struct {
	Status string `json:"status"`
	ItemID int    `json:"itemId,omitempty"`
}

func newProductView(p catalog.Product) productView {
	return productView{
		ItemID:                   p.ItemID,
		ItemName:                 p.ItemName,
		Price:                    json.Number(p.Price.String()),
		InitialAvailableQuantity: p.InitialStock,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Get("/list_products", s.list)
	r.Get("/list_products/{itemId}", s.get)

	if s.ReserveLimiter != nil {
		r.With(s.ReserveLimiter.Middleware).Get("/reserve_product/{itemId}", s.reserve)
	} else {
		r.Get("/reserve_product/{itemId}", s.reserve)
	}

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Reservations.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	products := s.Catalog.List()

	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, newProductView(p))
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(r)
	if !ok {
		kit.WriteJSON(w, http.StatusOK, statusResp{Status: statusNotFound})
		return
	}

	n, err := s.Reservations.EffectiveQuantity(r.Context(), p.ItemID, p.InitialStock)
	if err != nil {
		s.writeStoreError(w, r, err, "read current quantity failed", p.ItemID)
		return
	}

	kit.WriteJSON(w, http.StatusOK, productDetailView{
		productView:     newProductView(p),
		CurrentQuantity: n,
	})
}

func (s *Server) reserve(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(r)
	if !ok {
		s.metrics.observe(resultNotFound)
		kit.WriteJSON(w, http.StatusOK, statusResp{Status: statusNotFound})
		return
	}

	d, left, err := s.Reservations.Reserve(r.Context(), p.ItemID, p.InitialStock)
	if err != nil {
		s.metrics.observe(resultError)
		s.writeStoreError(w, r, err, "reserve failed", p.ItemID)
		return
	}

	if d == reservation.Insufficient {
		s.metrics.observe(resultInsufficient)
		kit.WriteJSON(w, http.StatusOK, statusResp{Status: statusInsufficient, ItemID: p.ItemID})
		return
	}

	id := "r_" + uuid.NewString()
	s.metrics.observe(resultConfirmed)
	if s.Log != nil {
		s.Log.Info("reservation confirmed",
			zap.String("reservation_id", id),
			zap.Int("item_id", p.ItemID),
			zap.Int("remaining", left),
		)
	}

	w.Header().Set(reservationIDHeader, id)
	kit.WriteJSON(w, http.StatusOK, statusResp{Status: statusConfirmed, ItemID: p.ItemID})
}

// lookup resolves the itemId path parameter. Ids that do not parse as a
// base-10 integer match no product.
func (s *Server) lookup(r *http.Request) (catalog.Product, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "itemId"))
	if err != nil {
		return catalog.Product{}, false
	}
	return s.Catalog.Find(id)
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, msg string, itemID int) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err), zap.Int("item_id", itemID))
	}

	switch {
	case errors.Is(err, reservation.ErrStoreUnavailable):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "reservation store unavailable", nil)
	case isTimeoutErr(err):
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
	default:
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
