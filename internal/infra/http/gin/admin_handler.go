package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"resort/internal/app/dto"
	analyticsapp "resort/internal/app/handlers/analytics"
	"resort/internal/app/queries"
)

type AdminHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h AdminHandler) Analytics(c *gin.Context) {
	result, err := queries.Ask[analyticsapp.SummaryQuery, dto.AnalyticsSummary](c.Request.Context(), h.Queries, analyticsapp.SummaryQuery{})
	if err != nil {
		respondWithError(c, h.Logger, "analytics summary", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AdminHTTP = AdminHandler{}
