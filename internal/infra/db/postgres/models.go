package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type roomModel struct {
	ID           int64                       `gorm:"primaryKey"`
	Name         string                      `gorm:"size:200;not null"`
	Description  string                      `gorm:"type:text"`
	BasePrice    decimal.Decimal             `gorm:"type:numeric(10,2);not null"`
	MaxAdults    int                         `gorm:"not null;default:2"`
	MaxChildren  int                         `gorm:"not null;default:0"`
	Amenities    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Photos       datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	IsActive     bool                        `gorm:"not null;default:true;index"`
	DisplayOrder int                         `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (roomModel) TableName() string { return "rooms" }

type bookingModel struct {
	ID              int64           `gorm:"primaryKey"`
	RoomID          int64           `gorm:"not null;index"`
	Room            *roomModel      `gorm:"foreignKey:RoomID;constraint:OnDelete:RESTRICT"`
	GuestName       string          `gorm:"size:200;not null"`
	GuestEmail      string          `gorm:"size:320;not null;index"`
	GuestPhone      string          `gorm:"size:32"`
	CheckIn         datatypes.Date  `gorm:"not null;index"`
	CheckOut        datatypes.Date  `gorm:"not null"`
	Adults          int             `gorm:"not null;default:1"`
	Children        int             `gorm:"not null;default:0"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Status          string          `gorm:"size:16;not null;index"`
	SpecialRequests string          `gorm:"type:text"`
	CreatedAt       time.Time       `gorm:"index"`
	UpdatedAt       time.Time
}

func (bookingModel) TableName() string { return "bookings" }

type pricingRuleModel struct {
	ID        int64           `gorm:"primaryKey"`
	RoomID    int64           `gorm:"not null;index"`
	Room      *roomModel      `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	Name      string          `gorm:"size:200"`
	StartDate datatypes.Date  `gorm:"not null"`
	EndDate   datatypes.Date  `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	CreatedAt time.Time
}

func (pricingRuleModel) TableName() string { return "pricing_rules" }

type paymentModel struct {
	ID          int64           `gorm:"primaryKey"`
	BookingID   int64           `gorm:"not null;index"`
	Booking     *bookingModel   `gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Method      string          `gorm:"size:50;not null"`
	Status      string          `gorm:"size:16;not null;index"`
	ReferenceID string          `gorm:"size:200"`
	PaidAt      *time.Time
	CreatedAt   time.Time `gorm:"index"`
}

func (paymentModel) TableName() string { return "payments" }

type reviewModel struct {
	ID         int64         `gorm:"primaryKey"`
	BookingID  int64         `gorm:"not null;uniqueIndex"`
	Booking    *bookingModel `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	GuestName  string        `gorm:"size:200;not null"`
	Rating     int           `gorm:"not null"`
	Comment    string        `gorm:"type:text"`
	IsApproved bool          `gorm:"not null;default:false;index"`
	CreatedAt  time.Time
}

func (reviewModel) TableName() string { return "reviews" }

type diningItemModel struct {
	ID           int64            `gorm:"primaryKey"`
	Name         string           `gorm:"size:200;not null"`
	Description  string           `gorm:"type:text"`
	MealType     string           `gorm:"size:16;not null"`
	Price        *decimal.Decimal `gorm:"type:numeric(10,2)"`
	IsVegetarian bool             `gorm:"not null;default:false"`
	IsAvailable  bool             `gorm:"not null;default:true"`
	DisplayOrder int              `gorm:"not null;default:0"`
	CreatedAt    time.Time
}

func (diningItemModel) TableName() string { return "dining_items" }

type guestModel struct {
	ID           int64  `gorm:"primaryKey"`
	FullName     string `gorm:"size:200;not null"`
	Email        string `gorm:"size:320;not null;uniqueIndex"`
	Phone        string `gorm:"size:32"`
	PasswordHash string `gorm:"size:255"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

func (guestModel) TableName() string { return "guests" }
