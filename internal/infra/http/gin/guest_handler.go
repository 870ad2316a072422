package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"resort/internal/app/dto"
	"resort/internal/app/services/guests"
	domainguest "resort/internal/domain/guest"
)

type GuestHandler struct {
	Service *guests.Service
	Logger  *slog.Logger
}

type createGuestRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type updateGuestRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

func (h GuestHandler) List(c *gin.Context) {
	items, err := h.Service.List(c.Request.Context())
	if err != nil {
		respondWithError(c, h.Logger, "list guests", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapGuests(items))
}

func (h GuestHandler) Create(c *gin.Context) {
	var req createGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	g, err := h.Service.Create(c.Request.Context(), guests.CreateParams{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondWithError(c, h.Logger, "create guest", err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapGuest(g))
}

func (h GuestHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	g, err := h.Service.Get(c.Request.Context(), domainguest.ID(id))
	if err != nil {
		respondWithError(c, h.Logger, "get guest", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapGuest(g))
}

func (h GuestHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req updateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	g, err := h.Service.Update(c.Request.Context(), domainguest.ID(id), guests.UpdateParams{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondWithError(c, h.Logger, "update guest", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapGuest(g))
}

func (h GuestHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainguest.ID(id)); err != nil {
		respondWithError(c, h.Logger, "delete guest", err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ GuestHTTP = GuestHandler{}
