package dining

import (
	"context"
	"log/slog"
	"time"

	domaindining "resort/internal/domain/dining"
)

type Service struct {
	Items  domaindining.Repository
	Logger *slog.Logger
	Now    func() time.Time
}

// Menu returns the items guests can order, by display order.
func (s *Service) Menu(ctx context.Context, includeUnavailable bool) ([]*domaindining.Item, error) {
	items, err := s.Items.List(ctx)
	if err != nil {
		return nil, err
	}
	if includeUnavailable {
		return items, nil
	}
	out := make([]*domaindining.Item, 0, len(items))
	for _, it := range items {
		if it.IsAvailable {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id domaindining.ID) (*domaindining.Item, error) {
	return s.Items.ByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, params domaindining.CreateParams) (*domaindining.Item, error) {
	if s.Now != nil {
		params.CreatedAt = s.Now()
	}
	item, err := domaindining.NewItem(params)
	if err != nil {
		return nil, err
	}
	if err := s.Items.Create(ctx, item); err != nil {
		return nil, err
	}
	s.logger().Info("dining item created", "item_id", item.ID, "meal_type", item.MealType)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id domaindining.ID, patch domaindining.Patch) (*domaindining.Item, error) {
	item, err := s.Items.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.Items.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id domaindining.ID) error {
	return s.Items.Delete(ctx, id)
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
