package dto

import (
	"time"

	"resort/internal/domain/shared/money"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = time.DateOnly

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

func formatMoney(m money.Money) string {
	return m.String()
}

type Collection[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func collect[S any, T any](in []S, mapFn func(S) T) Collection[T] {
	items := make([]T, 0, len(in))
	for _, v := range in {
		items = append(items, mapFn(v))
	}
	return Collection[T]{Items: items, Total: len(items)}
}
