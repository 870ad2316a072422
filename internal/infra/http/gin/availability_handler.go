package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"resort/internal/app/dto"
	availabilityapp "resort/internal/app/handlers/availability"
	"resort/internal/app/queries"
)

// Availability answers whether the room is free for check_in..check_out.
func (h RoomHandler) Availability(c *gin.Context) {
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
	query := availabilityapp.CheckAvailabilityQuery{RoomID: id, CheckIn: checkIn, CheckOut: checkOut}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, dto.Availability](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondWithError(c, h.Logger, "check availability", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
