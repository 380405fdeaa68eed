package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MileageRating grades a listing's odometer reading, derived upstream from
// mileage relative to vehicle age.
type MileageRating string

const (
	MileageExcellent  MileageRating = "excellent"
	MileageGood       MileageRating = "good"
	MileageAcceptable MileageRating = "acceptable"
	MileagePoor       MileageRating = "poor"
)

// TitleStatus represents a vehicle's title history classification.
type TitleStatus string

const (
	TitleClean   TitleStatus = "clean"
	TitleSalvage TitleStatus = "salvage"
	TitleRebuilt TitleStatus = "rebuilt"
	TitleLien    TitleStatus = "lien"
)

// Tier is the three-valued quality classification derived from a listing's
// priority score. It is never stored on a Listing; the pipeline's classifier
// recomputes it on demand so it cannot drift from the score.
type Tier string

const (
	TierTopPick Tier = "top_pick"
	TierGoodBuy Tier = "good_buy"
	TierCaution Tier = "caution"
)

// Listing represents one vehicle tracked by LotView. PriorityScore is a 0-100
// composite computed by the ingestion pipeline; the query pipeline treats it
// as an opaque input.
type Listing struct {
	VIN           string          `json:"vin"`
	Make          string          `json:"make"`
	Model         string          `json:"model"`
	Year          int             `json:"year"`
	Price         decimal.Decimal `json:"price"`
	Mileage       int             `json:"mileage"`
	MileageRating MileageRating   `json:"mileage_rating"`
	TitleStatus   TitleStatus     `json:"title_status"`
	AccidentCount int             `json:"accident_count"`
	OwnerCount    int             `json:"owner_count"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	DistanceMiles float64         `json:"distance_miles"`
	PriorityScore int             `json:"priority_score"`
	ListedAt      time.Time       `json:"listed_at"`
}
