package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"resort/internal/domain/room"
	"resort/internal/domain/shared/money"
)

// loadRoomFixtures seeds the catalog from a JSON file. It does nothing when
// rooms already exist, so restarts against a persistent store are safe.
func (a *application) loadRoomFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	if path == "" {
		path = defaultRoomFixturesPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("room fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("room fixtures file empty", "path", path)
		return nil
	}

	var fixtures []roomFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return nil
	}

	existing, err := a.rooms.List(ctx, false)
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("rooms already present, fixtures skipped", "rooms", len(existing))
		return nil
	}

	now := time.Now()
	for i, fx := range fixtures {
		price, err := money.Parse(fx.BasePrice, a.currency)
		if err != nil {
			logger.Error("fixture price invalid", "room", fx.Name, "error", err)
			continue
		}
		order := fx.DisplayOrder
		if order == 0 {
			order = i + 1
		}
		r, err := room.New(room.CreateParams{
			Name:         fx.Name,
			Description:  fx.Description,
			BasePrice:    price,
			MaxAdults:    fx.MaxAdults,
			MaxChildren:  fx.MaxChildren,
			Amenities:    append([]string(nil), fx.Amenities...),
			DisplayOrder: order,
			CreatedAt:    now,
		})
		if err != nil {
			logger.Error("fixture invalid", "room", fx.Name, "error", err)
			continue
		}
		for _, photo := range fx.Photos {
			r.AddPhoto(photo, now)
		}
		if err := a.rooms.Create(ctx, r); err != nil {
			logger.Error("cannot store fixture room", "room", fx.Name, "error", err)
			continue
		}
		logger.Info("room fixture imported", "room_id", r.ID, "name", r.Name)
	}
	return nil
}

type roomFixture struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	BasePrice    string   `json:"base_price"`
	MaxAdults    *int     `json:"max_adults"`
	MaxChildren  *int     `json:"max_children"`
	Amenities    []string `json:"amenities"`
	Photos       []string `json:"photos"`
	DisplayOrder int      `json:"display_order"`
}

func defaultRoomFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "rooms.json"),
		filepath.Join("..", "..", "data", "rooms.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}
