package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"resort/internal/domain/booking"
	"resort/internal/domain/dining"
	"resort/internal/domain/guest"
	"resort/internal/domain/payment"
	"resort/internal/domain/pricing"
	"resort/internal/domain/reviews"
	"resort/internal/domain/room"
	"resort/internal/domain/shared/daterange"
	"resort/internal/domain/shared/money"
)

func toDate(t time.Time) datatypes.Date {
	return datatypes.Date(daterange.Day(t))
}

func fromDate(d datatypes.Date) time.Time {
	return daterange.Day(time.Time(d))
}

func toMoney(d decimal.Decimal, currency string) (money.Money, error) {
	return money.FromDecimal(d, currency)
}

func roomToModel(r *room.Room) roomModel {
	return roomModel{
		ID:           int64(r.ID),
		Name:         r.Name,
		Description:  r.Description,
		BasePrice:    r.BasePrice.Decimal(),
		MaxAdults:    r.MaxAdults,
		MaxChildren:  r.MaxChildren,
		Amenities:    datatypes.JSONSlice[string](r.Amenities),
		Photos:       datatypes.JSONSlice[string](r.Photos),
		IsActive:     r.IsActive,
		DisplayOrder: r.DisplayOrder,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func roomFromModel(m roomModel, currency string) (*room.Room, error) {
	price, err := toMoney(m.BasePrice, currency)
	if err != nil {
		return nil, err
	}
	return &room.Room{
		ID:           room.ID(m.ID),
		Name:         m.Name,
		Description:  m.Description,
		BasePrice:    price,
		MaxAdults:    m.MaxAdults,
		MaxChildren:  m.MaxChildren,
		Amenities:    append([]string{}, m.Amenities...),
		Photos:       append([]string{}, m.Photos...),
		IsActive:     m.IsActive,
		DisplayOrder: m.DisplayOrder,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}, nil
}

func bookingToModel(b *booking.Booking) bookingModel {
	return bookingModel{
		ID:              int64(b.ID),
		RoomID:          int64(b.RoomID),
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		GuestPhone:      b.GuestPhone,
		CheckIn:         toDate(b.Stay.CheckIn),
		CheckOut:        toDate(b.Stay.CheckOut),
		Adults:          b.Adults,
		Children:        b.Children,
		TotalAmount:     b.TotalAmount.Decimal(),
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func bookingFromModel(m bookingModel, currency string) (*booking.Booking, error) {
	total, err := toMoney(m.TotalAmount, currency)
	if err != nil {
		return nil, err
	}
	return &booking.Booking{
		ID:              booking.ID(m.ID),
		RoomID:          room.ID(m.RoomID),
		GuestName:       m.GuestName,
		GuestEmail:      m.GuestEmail,
		GuestPhone:      m.GuestPhone,
		Stay:            daterange.DateRange{CheckIn: fromDate(m.CheckIn), CheckOut: fromDate(m.CheckOut)},
		Adults:          m.Adults,
		Children:        m.Children,
		TotalAmount:     total,
		Status:          booking.Status(m.Status),
		SpecialRequests: m.SpecialRequests,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}, nil
}

func ruleToModel(r *pricing.Rule) pricingRuleModel {
	return pricingRuleModel{
		ID:        int64(r.ID),
		RoomID:    int64(r.RoomID),
		Name:      r.Name,
		StartDate: toDate(r.StartDate),
		EndDate:   toDate(r.EndDate),
		Price:     r.Price.Decimal(),
		CreatedAt: r.CreatedAt,
	}
}

func ruleFromModel(m pricingRuleModel, currency string) (*pricing.Rule, error) {
	price, err := toMoney(m.Price, currency)
	if err != nil {
		return nil, err
	}
	return &pricing.Rule{
		ID:        pricing.RuleID(m.ID),
		RoomID:    room.ID(m.RoomID),
		Name:      m.Name,
		StartDate: fromDate(m.StartDate),
		EndDate:   fromDate(m.EndDate),
		Price:     price,
		CreatedAt: m.CreatedAt.UTC(),
	}, nil
}

func paymentToModel(p *payment.Payment) paymentModel {
	return paymentModel{
		ID:          int64(p.ID),
		BookingID:   int64(p.BookingID),
		Amount:      p.Amount.Decimal(),
		Method:      p.Method,
		Status:      string(p.Status),
		ReferenceID: p.ReferenceID,
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
	}
}

func paymentFromModel(m paymentModel, currency string) (*payment.Payment, error) {
	amount, err := toMoney(m.Amount, currency)
	if err != nil {
		return nil, err
	}
	out := &payment.Payment{
		ID:          payment.ID(m.ID),
		BookingID:   booking.ID(m.BookingID),
		Amount:      amount,
		Method:      m.Method,
		Status:      payment.Status(m.Status),
		ReferenceID: m.ReferenceID,
		CreatedAt:   m.CreatedAt.UTC(),
	}
	if m.PaidAt != nil {
		at := m.PaidAt.UTC()
		out.PaidAt = &at
	}
	return out, nil
}

func reviewToModel(r *reviews.Review) reviewModel {
	return reviewModel{
		ID:         int64(r.ID),
		BookingID:  int64(r.BookingID),
		GuestName:  r.GuestName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		IsApproved: r.IsApproved,
		CreatedAt:  r.CreatedAt,
	}
}

func reviewFromModel(m reviewModel) *reviews.Review {
	return &reviews.Review{
		ID:         reviews.ID(m.ID),
		BookingID:  booking.ID(m.BookingID),
		GuestName:  m.GuestName,
		Rating:     m.Rating,
		Comment:    m.Comment,
		IsApproved: m.IsApproved,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

func diningToModel(it *dining.Item) diningItemModel {
	m := diningItemModel{
		ID:           int64(it.ID),
		Name:         it.Name,
		Description:  it.Description,
		MealType:     string(it.MealType),
		IsVegetarian: it.IsVegetarian,
		IsAvailable:  it.IsAvailable,
		DisplayOrder: it.DisplayOrder,
		CreatedAt:    it.CreatedAt,
	}
	if it.Price != nil {
		d := it.Price.Decimal()
		m.Price = &d
	}
	return m
}

func diningFromModel(m diningItemModel, currency string) (*dining.Item, error) {
	out := &dining.Item{
		ID:           dining.ID(m.ID),
		Name:         m.Name,
		Description:  m.Description,
		MealType:     dining.MealType(m.MealType),
		IsVegetarian: m.IsVegetarian,
		IsAvailable:  m.IsAvailable,
		DisplayOrder: m.DisplayOrder,
		CreatedAt:    m.CreatedAt.UTC(),
	}
	if m.Price != nil {
		price, err := toMoney(*m.Price, currency)
		if err != nil {
			return nil, err
		}
		out.Price = &price
	}
	return out, nil
}

func guestToModel(g *guest.Guest) guestModel {
	return guestModel{
		ID:           int64(g.ID),
		FullName:     g.FullName,
		Email:        g.Email,
		Phone:        g.Phone,
		PasswordHash: g.PasswordHash,
		IsAdmin:      g.IsAdmin,
		CreatedAt:    g.CreatedAt,
	}
}

func guestFromModel(m guestModel) *guest.Guest {
	return &guest.Guest{
		ID:           guest.ID(m.ID),
		FullName:     m.FullName,
		Email:        m.Email,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}
