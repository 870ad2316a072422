package ginserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"resort/internal/app/dto"
	pricingapp "resort/internal/app/handlers/pricing"
	"resort/internal/app/queries"
	"resort/internal/app/services/pricingrules"
	domainpricing "resort/internal/domain/pricing"
	domainroom "resort/internal/domain/room"
)

type PricingHandler struct {
	Service  *pricingrules.Service
	Queries  queries.Bus
	Currency string
	Logger   *slog.Logger
}

type createRuleRequest struct {
	RoomID    int64       `json:"room_id" binding:"required"`
	Name      string      `json:"name"`
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Price     json.Number `json:"price" binding:"required"`
}

type updateRuleRequest struct {
	Name      *string      `json:"name"`
	StartDate *string      `json:"start_date"`
	EndDate   *string      `json:"end_date"`
	Price     *json.Number `json:"price"`
}

func (h PricingHandler) ListByRoom(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	rules, err := h.Service.ListByRoom(c.Request.Context(), domainroom.ID(id))
	if err != nil {
		respondWithError(c, h.Logger, "list pricing rules", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapPricingRules(rules))
}

// Quote prices check_in..check_out night by night.
func (h PricingHandler) Quote(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	checkIn, checkOut, err := stayQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	query := pricingapp.QuotePriceQuery{RoomID: id, CheckIn: checkIn, CheckOut: checkOut}
	result, err := queries.Ask[pricingapp.QuotePriceQuery, dto.PriceQuote](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondWithError(c, h.Logger, "quote price", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PricingHandler) Create(c *gin.Context) {
	var req createRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	start, err := parseDay(req.StartDate)
	if err != nil {
		respondWithError(c, h.Logger, "create pricing rule", err)
		return
	}
	end, err := parseDay(req.EndDate)
	if err != nil {
		respondWithError(c, h.Logger, "create pricing rule", err)
		return
	}
	price, err := parseAmount(req.Price, h.Currency)
	if err != nil {
		respondWithError(c, h.Logger, "create pricing rule", err)
		return
	}
	rule, err := h.Service.Create(c.Request.Context(), domainpricing.RuleParams{
		RoomID:    domainroom.ID(req.RoomID),
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		Price:     price,
	})
	if err != nil {
		respondWithError(c, h.Logger, "create pricing rule", err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapPricingRule(rule))
}

func (h PricingHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req updateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	patch := domainpricing.RulePatch{Name: req.Name}
	if patch.StartDate, err = parseDayPtr(req.StartDate); err != nil {
		respondWithError(c, h.Logger, "update pricing rule", err)
		return
	}
	if patch.EndDate, err = parseDayPtr(req.EndDate); err != nil {
		respondWithError(c, h.Logger, "update pricing rule", err)
		return
	}
	if patch.Price, err = parseAmountPtr(req.Price, h.Currency); err != nil {
		respondWithError(c, h.Logger, "update pricing rule", err)
		return
	}
	rule, err := h.Service.Update(c.Request.Context(), domainpricing.RuleID(id), patch)
	if err != nil {
		respondWithError(c, h.Logger, "update pricing rule", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapPricingRule(rule))
}

func (h PricingHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainpricing.RuleID(id)); err != nil {
		respondWithError(c, h.Logger, "delete pricing rule", err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ PricingHTTP = PricingHandler{}
