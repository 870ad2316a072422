package pricingrules

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"resort/internal/domain/pricing"
	"resort/internal/domain/room"
)

// Service manages the seasonal rate overrides of rooms.
type Service struct {
	Rooms  room.Repository
	Rules  pricing.RuleRepository
	Logger *slog.Logger
	Now    func() time.Time
}

// ListByRoom returns the rules of a room ordered by start date. Resolution
// order stays creation order; this ordering is only for display.
func (s *Service) ListByRoom(ctx context.Context, roomID room.ID) ([]*pricing.Rule, error) {
	if _, err := s.Rooms.ByID(ctx, roomID); err != nil {
		return nil, err
	}
	rules, err := s.Rules.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	sorted := append([]*pricing.Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	return sorted, nil
}

func (s *Service) Create(ctx context.Context, params pricing.RuleParams) (*pricing.Rule, error) {
	if params.RoomID == 0 {
		return nil, pricing.ErrRoomRequired
	}
	if _, err := s.Rooms.ByID(ctx, params.RoomID); err != nil {
		return nil, err
	}
	params.CreatedAt = s.now()
	rule, err := pricing.NewRule(params)
	if err != nil {
		return nil, err
	}
	if err := s.Rules.Create(ctx, rule); err != nil {
		return nil, err
	}
	s.logger().Info("pricing rule created",
		"rule_id", rule.ID,
		"room_id", rule.RoomID,
		"start", rule.StartDate.Format(time.DateOnly),
		"end", rule.EndDate.Format(time.DateOnly),
		"price", rule.Price.String(),
	)
	return rule, nil
}

func (s *Service) Update(ctx context.Context, id pricing.RuleID, patch pricing.RulePatch) (*pricing.Rule, error) {
	rule, err := s.Rules.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rule.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.Rules.Save(ctx, rule); err != nil {
		return nil, err
	}
	s.logger().Info("pricing rule updated", "rule_id", rule.ID)
	return rule, nil
}

func (s *Service) Delete(ctx context.Context, id pricing.RuleID) error {
	if err := s.Rules.Delete(ctx, id); err != nil {
		return err
	}
	s.logger().Info("pricing rule deleted", "rule_id", id)
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
