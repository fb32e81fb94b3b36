package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/JoshiWorld/rechnungssteller-api/internal/auth"
	"github.com/JoshiWorld/rechnungssteller-api/internal/mailer"
	"github.com/JoshiWorld/rechnungssteller-api/internal/order"
)

type CreateOrderRequest struct {
	Email string `json:"email" validate:"required,email"`
	Title string `json:"title" validate:"required"`
}

type UpdateOrderRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
	Paid   bool  `json:"paid"`
}

type AddArticlesRequest struct {
	ID       int64   `json:"id" validate:"required"`
	Articles []int64 `json:"articles"`
}

type SendOrderRequest struct {
	ID string `json:"id" validate:"required"`
}

// InvoiceSender is the notification boundary used by the send-order route.
type InvoiceSender interface {
	SendInvoice(ctx context.Context, o *order.Detail) error
}

type OrderHandler struct {
	service  order.Service
	sender   InvoiceSender
	validate *validator.Validate
}

func NewOrderHandler(service order.Service, sender InvoiceSender) *OrderHandler {
	return &OrderHandler{
		service:  service,
		sender:   sender,
		validate: validator.New(),
	}
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateOrderRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	createdOrder, err := h.service.Create(r.Context(), requestPayload.Email, requestPayload.Title)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create order via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create order")
		return
	}

	respondWithJSON(w, http.StatusCreated, createdOrder)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	if idParam == "" {
		respondWithError(w, http.StatusBadRequest, "Id parameter cannot be empty")
		return
	}

	// A master token lifts the paid-order restriction.
	isMaster := auth.ClaimsFromContext(r.Context()) != nil

	detail, err := h.service.Get(r.Context(), idParam, isMaster)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get order via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "id")
	if token == "" {
		respondWithError(w, http.StatusBadRequest, "Id parameter cannot be empty")
		return
	}

	var requestPayload UpdateOrderRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	err := h.service.Update(r.Context(), token, requestPayload.UserID, requestPayload.Paid)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Msg("Failed to update order via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Msg("Failed to delete order via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	err := h.service.MarkPaid(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Msg("Failed to mark order paid via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to mark order paid")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"paid": true})
}

func (h *OrderHandler) handleAddArticles(w http.ResponseWriter, r *http.Request) {
	var requestPayload AddArticlesRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	err := h.service.AddArticles(r.Context(), requestPayload.ID, requestPayload.Articles)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)

		var clientMessage string
		switch {
		case errors.Is(err, order.ErrNotFound):
			clientMessage = "Order not found"
		case errors.Is(err, order.ErrArticleNotFound):
			clientMessage = "Article not found"
		default:
			log.Error().Err(err).Msg("Failed to add articles via service")
			clientMessage = "Failed to add articles"
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"added": len(requestPayload.Articles)})
}

func (h *OrderHandler) handleSendOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload SendOrderRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	detail, err := h.service.Get(r.Context(), requestPayload.ID, true)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get order for sending")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get order")
		return
	}

	if err := h.sender.SendInvoice(r.Context(), detail); err != nil {
		if errors.Is(err, mailer.ErrTransport) {
			respondWithError(w, http.StatusInternalServerError, "Failed to send invoice email")
		} else {
			// Rendering and message assembly failures land here; the client
			// message stays neutral about which step broke.
			respondWithError(w, http.StatusInternalServerError, "Failed to prepare invoice")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "email sent"})
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	orderID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		log.Warn().Str("order_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return 0, false
	}
	return orderID, true
}
