package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"resort/internal/app/dto"
	reviewsvc "resort/internal/app/services/reviews"
	domainbooking "resort/internal/domain/booking"
	domainreviews "resort/internal/domain/reviews"
)

type ReviewHandler struct {
	Service *reviewsvc.Service
	Logger  *slog.Logger
}

type submitReviewRequest struct {
	BookingID int64  `json:"booking_id"`
	GuestName string `json:"guest_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type updateReviewRequest struct {
	Rating     *int    `json:"rating"`
	Comment    *string `json:"comment"`
	IsApproved *bool   `json:"is_approved"`
}

func (h ReviewHandler) Published(c *gin.Context) {
	items, err := h.Service.Published(c.Request.Context())
	if err != nil {
		respondWithError(c, h.Logger, "list reviews", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReviews(items))
}

func (h ReviewHandler) Submit(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	review, err := h.Service.Submit(c.Request.Context(), domainreviews.SubmitParams{
		BookingID: domainbooking.ID(req.BookingID),
		GuestName: req.GuestName,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondWithError(c, h.Logger, "submit review", err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapReview(review))
}

func (h ReviewHandler) All(c *gin.Context) {
	items, err := h.Service.All(c.Request.Context())
	if err != nil {
		respondWithError(c, h.Logger, "list all reviews", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReviews(items))
}

func (h ReviewHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	review, err := h.Service.Update(c.Request.Context(), domainreviews.ID(id), domainreviews.Patch{
		Rating:     req.Rating,
		Comment:    req.Comment,
		IsApproved: req.IsApproved,
	})
	if err != nil {
		respondWithError(c, h.Logger, "update review", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReview(review))
}

func (h ReviewHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainreviews.ID(id)); err != nil {
		respondWithError(c, h.Logger, "delete review", err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ ReviewHTTP = ReviewHandler{}
