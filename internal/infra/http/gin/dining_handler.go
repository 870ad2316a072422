package ginserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"resort/internal/app/dto"
	diningsvc "resort/internal/app/services/dining"
	domaindining "resort/internal/domain/dining"
)

type DiningHandler struct {
	Service  *diningsvc.Service
	Currency string
	Logger   *slog.Logger
}

type createDiningRequest struct {
	Name         string       `json:"name" binding:"required"`
	Description  string       `json:"description"`
	MealType     string       `json:"meal_type" binding:"required"`
	Price        *json.Number `json:"price"`
	IsVegetarian bool         `json:"is_vegetarian"`
	IsAvailable  *bool        `json:"is_available"`
	DisplayOrder int          `json:"display_order"`
}

// updateDiningRequest distinguishes an absent price from "price": null,
// which clears it.
type updateDiningRequest struct {
	Name         *string         `json:"name"`
	Description  *string         `json:"description"`
	MealType     *string         `json:"meal_type"`
	Price        json.RawMessage `json:"price"`
	IsVegetarian *bool           `json:"is_vegetarian"`
	IsAvailable  *bool           `json:"is_available"`
	DisplayOrder *int            `json:"display_order"`
}

// Menu lists available items. Admins may pass include_unavailable=true.
func (h DiningHandler) Menu(c *gin.Context) {
	includeUnavailable := false
	if c.Query("include_unavailable") == "true" {
		if g, ok := currentGuest(c); ok && g.IsAdmin {
			includeUnavailable = true
		}
	}
	items, err := h.Service.Menu(c.Request.Context(), includeUnavailable)
	if err != nil {
		respondWithError(c, h.Logger, "list dining", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapDiningItems(items))
}

func (h DiningHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	it, err := h.Service.Get(c.Request.Context(), domaindining.ID(id))
	if err != nil {
		respondWithError(c, h.Logger, "get dining item", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapDiningItem(it))
}

func (h DiningHandler) Create(c *gin.Context) {
	var req createDiningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	price, err := parseAmountPtr(req.Price, h.Currency)
	if err != nil {
		respondWithError(c, h.Logger, "create dining item", err)
		return
	}
	it, err := h.Service.Create(c.Request.Context(), domaindining.CreateParams{
		Name:         req.Name,
		Description:  req.Description,
		MealType:     req.MealType,
		Price:        price,
		IsVegetarian: req.IsVegetarian,
		IsAvailable:  req.IsAvailable,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		respondWithError(c, h.Logger, "create dining item", err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapDiningItem(it))
}

func (h DiningHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req updateDiningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	patch := domaindining.Patch{
		Name:         req.Name,
		Description:  req.Description,
		MealType:     req.MealType,
		IsVegetarian: req.IsVegetarian,
		IsAvailable:  req.IsAvailable,
		DisplayOrder: req.DisplayOrder,
	}
	switch raw := string(req.Price); raw {
	case "":
	case "null":
		patch.ClearPrice = true
	default:
		var n json.Number
		if err := json.Unmarshal(req.Price, &n); err != nil {
			badRequest(c, "invalid price")
			return
		}
		if patch.Price, err = parseAmountPtr(&n, h.Currency); err != nil {
			respondWithError(c, h.Logger, "update dining item", err)
			return
		}
	}
	it, err := h.Service.Update(c.Request.Context(), domaindining.ID(id), patch)
	if err != nil {
		respondWithError(c, h.Logger, "update dining item", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapDiningItem(it))
}

func (h DiningHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domaindining.ID(id)); err != nil {
		respondWithError(c, h.Logger, "delete dining item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ DiningHTTP = DiningHandler{}
