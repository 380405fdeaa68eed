package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lotview/lotview/pkg/models"
)

// NewListing returns a Listing with sensible defaults, suitable for test
// fixtures. Override individual fields via options as needed.
func NewListing(opts ...func(*models.Listing)) models.Listing {
	l := models.Listing{
		VIN:           "4T1BF1FK5HU281903",
		Make:          "Toyota",
		Model:         "Camry",
		Year:          2020,
		Price:         decimal.NewFromInt(21500),
		Mileage:       34000,
		MileageRating: models.MileageGood,
		TitleStatus:   models.TitleClean,
		AccidentCount: 0,
		OwnerCount:    1,
		City:          "Austin",
		State:         "TX",
		DistanceMiles: 12.4,
		PriorityScore: 75,
		ListedAt:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// WithVIN sets the listing's vehicle identifier.
func WithVIN(vin string) func(*models.Listing) {
	return func(l *models.Listing) { l.VIN = vin }
}

// WithMakeModel sets the listing's make and model.
func WithMakeModel(mk, mdl string) func(*models.Listing) {
	return func(l *models.Listing) { l.Make, l.Model = mk, mdl }
}

// WithYear sets the model year.
func WithYear(y int) func(*models.Listing) {
	return func(l *models.Listing) { l.Year = y }
}

// WithPrice sets the price from a decimal string such as "18999.00".
func WithPrice(p string) func(*models.Listing) {
	return func(l *models.Listing) { l.Price = decimal.RequireFromString(p) }
}

// WithMileage sets the odometer reading.
func WithMileage(m int) func(*models.Listing) {
	return func(l *models.Listing) { l.Mileage = m }
}

// WithMileageRating sets the derived mileage rating.
func WithMileageRating(r models.MileageRating) func(*models.Listing) {
	return func(l *models.Listing) { l.MileageRating = r }
}

// WithScore sets the priority score.
func WithScore(s int) func(*models.Listing) {
	return func(l *models.Listing) { l.PriorityScore = s }
}

// WithListedAt sets the listing timestamp.
func WithListedAt(t time.Time) func(*models.Listing) {
	return func(l *models.Listing) { l.ListedAt = t }
}
