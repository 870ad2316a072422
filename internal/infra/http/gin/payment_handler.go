package ginserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"resort/internal/app/commands"
	"resort/internal/app/dto"
	paymentapp "resort/internal/app/handlers/payments"
	paymentsvc "resort/internal/app/services/payments"
	domainbooking "resort/internal/domain/booking"
	domainpayment "resort/internal/domain/payment"
)

type PaymentHandler struct {
	Commands commands.Bus
	Service  *paymentsvc.Service
	Logger   *slog.Logger
}

type createPaymentRequest struct {
	BookingID   int64       `json:"booking_id"`
	Amount      json.Number `json:"amount"`
	Method      string      `json:"method"`
	ReferenceID string      `json:"reference_id"`
}

type updatePaymentRequest struct {
	Status      *string `json:"status"`
	Method      *string `json:"method"`
	ReferenceID *string `json:"reference_id"`
}

func (h PaymentHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	cmd := paymentapp.CreatePaymentCommand{
		BookingID:       req.BookingID,
		Amount:          req.Amount.String(),
		Method:          req.Method,
		ReferenceID:     req.ReferenceID,
		IdempotencyKeyV: strings.TrimSpace(c.GetHeader(idempotencyHeader)),
	}
	result, err := commands.Dispatch[paymentapp.CreatePaymentCommand, *dto.Payment](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, "create payment", err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// List returns all payments, or those of one booking with ?booking_id=.
func (h PaymentHandler) List(c *gin.Context) {
	var bookingID int64
	if raw := c.Query("booking_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			badRequest(c, "invalid booking_id")
			return
		}
		bookingID = id
	}
	items, err := h.Service.List(c.Request.Context(), domainbooking.ID(bookingID))
	if err != nil {
		respondWithError(c, h.Logger, "list payments", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapPayments(items))
}

func (h PaymentHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := h.Service.Get(c.Request.Context(), domainpayment.ID(id))
	if err != nil {
		respondWithError(c, h.Logger, "get payment", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapPayment(p))
}

func (h PaymentHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	patch := domainpayment.Patch{Method: req.Method, ReferenceID: req.ReferenceID}
	if req.Status != nil {
		status, err := domainpayment.ParseStatus(*req.Status)
		if err != nil {
			respondWithError(c, h.Logger, "update payment", err)
			return
		}
		patch.Status = &status
	}
	result, err := commands.Dispatch[paymentapp.UpdatePaymentCommand, *dto.Payment](c.Request.Context(), h.Commands, paymentapp.UpdatePaymentCommand{
		PaymentID: id,
		Patch:     patch,
	})
	if err != nil {
		respondWithError(c, h.Logger, "update payment", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PaymentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainpayment.ID(id)); err != nil {
		respondWithError(c, h.Logger, "delete payment", err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ PaymentHTTP = PaymentHandler{}
