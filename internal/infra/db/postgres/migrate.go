package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const bookingOverlapConstraint = "bookings_no_overlap"

// Migrate creates or updates the schema. Besides the tables it installs the
// exclusion constraint that keeps confirmed stays of one room disjoint.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(
		&roomModel{},
		&guestModel{},
		&bookingModel{},
		&pricingRuleModel{},
		&paymentModel{},
		&reviewModel{},
		&diningItemModel{},
	); err != nil {
		return fmt.Errorf("postgres: automigrate: %w", err)
	}
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '` + bookingOverlapConstraint + `') THEN
		ALTER TABLE bookings ADD CONSTRAINT ` + bookingOverlapConstraint + `
			EXCLUDE USING gist (room_id WITH =, daterange(check_in, check_out, '[)') WITH &&)
			WHERE (status = 'CONFIRMED');
	END IF;
END $$`,
		`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_stay_valid') THEN
		ALTER TABLE bookings ADD CONSTRAINT bookings_stay_valid CHECK (check_in < check_out);
	END IF;
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'pricing_rules_range_valid') THEN
		ALTER TABLE pricing_rules ADD CONSTRAINT pricing_rules_range_valid CHECK (start_date <= end_date);
	END IF;
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'reviews_rating_range') THEN
		ALTER TABLE reviews ADD CONSTRAINT reviews_rating_range CHECK (rating BETWEEN 1 AND 5);
	END IF;
END $$`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("postgres: migrate: %w", err)
		}
	}
	return nil
}
