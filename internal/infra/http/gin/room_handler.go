package ginserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"resort/internal/app/dto"
	"resort/internal/app/queries"
	roomsvc "resort/internal/app/services/rooms"
	domainroom "resort/internal/domain/room"
)

type RoomHandler struct {
	Service  *roomsvc.Service
	Queries  queries.Bus
	Currency string
	Logger   *slog.Logger
}

type createRoomRequest struct {
	Name         string      `json:"name" binding:"required"`
	Description  string      `json:"description"`
	BasePrice    json.Number `json:"base_price" binding:"required"`
	MaxAdults    *int        `json:"max_adults"`
	MaxChildren  *int        `json:"max_children"`
	Amenities    []string    `json:"amenities"`
	IsActive     *bool       `json:"is_active"`
	DisplayOrder int         `json:"display_order"`
}

type updateRoomRequest struct {
	Name         *string      `json:"name"`
	Description  *string      `json:"description"`
	BasePrice    *json.Number `json:"base_price"`
	MaxAdults    *int         `json:"max_adults"`
	MaxChildren  *int         `json:"max_children"`
	Amenities    *[]string    `json:"amenities"`
	IsActive     *bool        `json:"is_active"`
	DisplayOrder *int         `json:"display_order"`
}

// List shows active rooms. Admins may pass include_inactive=true.
func (h RoomHandler) List(c *gin.Context) {
	items, err := h.Service.List(c.Request.Context(), h.includeInactive(c))
	if err != nil {
		respondWithError(c, h.Logger, "list rooms", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRooms(items))
}

func (h RoomHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	r, err := h.Service.Get(c.Request.Context(), domainroom.ID(id), h.includeInactive(c))
	if err != nil {
		respondWithError(c, h.Logger, "get room", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRoom(r))
}

func (h RoomHandler) Create(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	price, err := parseAmount(req.BasePrice, h.Currency)
	if err != nil {
		respondWithError(c, h.Logger, "create room", err)
		return
	}
	r, err := h.Service.Create(c.Request.Context(), domainroom.CreateParams{
		Name:         req.Name,
		Description:  req.Description,
		BasePrice:    price,
		MaxAdults:    req.MaxAdults,
		MaxChildren:  req.MaxChildren,
		Amenities:    req.Amenities,
		IsActive:     req.IsActive,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		respondWithError(c, h.Logger, "create room", err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapRoom(r))
}

func (h RoomHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	price, err := parseAmountPtr(req.BasePrice, h.Currency)
	if err != nil {
		respondWithError(c, h.Logger, "update room", err)
		return
	}
	r, err := h.Service.Update(c.Request.Context(), domainroom.ID(id), domainroom.Patch{
		Name:         req.Name,
		Description:  req.Description,
		BasePrice:    price,
		MaxAdults:    req.MaxAdults,
		MaxChildren:  req.MaxChildren,
		Amenities:    req.Amenities,
		IsActive:     req.IsActive,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		respondWithError(c, h.Logger, "update room", err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRoom(r))
}

func (h RoomHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainroom.ID(id)); err != nil {
		respondWithError(c, h.Logger, "delete room", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhoto takes a multipart "file" field.
func (h RoomHandler) UploadPhoto(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "unreadable file")
		return
	}
	defer f.Close()

	_, url, err := h.Service.UploadPhoto(c.Request.Context(), domainroom.ID(id), roomsvc.PhotoParams{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	})
	if err != nil {
		respondWithError(c, h.Logger, "upload room photo", err)
		return
	}
	c.JSON(http.StatusCreated, dto.PhotoUpload{RoomID: id, URL: url})
}

func (h RoomHandler) includeInactive(c *gin.Context) bool {
	if c.Query("include_inactive") != "true" {
		return false
	}
	g, ok := currentGuest(c)
	return ok && g.IsAdmin
}

var _ RoomHTTP = RoomHandler{}
