package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lotview/lotview/pkg/models"
)

// seedListings is the fallback static dataset used when the database is
// empty, so a fresh install has something to browse before the ingestion
// feed delivers real inventory.
var seedListings = []models.Listing{
	{
		VIN: "4T1BF1FK5HU281903", Make: "Toyota", Model: "Camry", Year: 2020,
		Price: dec("18450"), Mileage: 31200, MileageRating: models.MileageExcellent,
		TitleStatus: models.TitleClean, AccidentCount: 0, OwnerCount: 1,
		City: "Round Rock", State: "TX", DistanceMiles: 18.2, PriorityScore: 91,
		ListedAt: seedTime("2026-08-20"),
	},
	{
		VIN: "1HGCV1F34LA012345", Make: "Honda", Model: "Accord", Year: 2020,
		Price: dec("20990"), Mileage: 42800, MileageRating: models.MileageGood,
		TitleStatus: models.TitleClean, AccidentCount: 0, OwnerCount: 1,
		City: "Austin", State: "TX", DistanceMiles: 6.5, PriorityScore: 86,
		ListedAt: seedTime("2026-08-18"),
	},
	{
		VIN: "5YFEPMAE6MP203911", Make: "Toyota", Model: "Corolla", Year: 2021,
		Price: dec("17200"), Mileage: 28900, MileageRating: models.MileageExcellent,
		TitleStatus: models.TitleClean, AccidentCount: 0, OwnerCount: 1,
		City: "Cedar Park", State: "TX", DistanceMiles: 22.9, PriorityScore: 84,
		ListedAt: seedTime("2026-08-21"),
	},
	{
		VIN: "2HGFC2F59KH554321", Make: "Honda", Model: "Civic", Year: 2019,
		Price: dec("16750"), Mileage: 51400, MileageRating: models.MileageGood,
		TitleStatus: models.TitleClean, AccidentCount: 1, OwnerCount: 2,
		City: "Pflugerville", State: "TX", DistanceMiles: 14.0, PriorityScore: 74,
		ListedAt: seedTime("2026-08-15"),
	},
	{
		VIN: "1FTEW1EP3KF456789", Make: "Ford", Model: "F-150", Year: 2019,
		Price: dec("28900"), Mileage: 64300, MileageRating: models.MileageAcceptable,
		TitleStatus: models.TitleClean, AccidentCount: 1, OwnerCount: 2,
		City: "Georgetown", State: "TX", DistanceMiles: 29.6, PriorityScore: 71,
		ListedAt: seedTime("2026-08-12"),
	},
	{
		VIN: "5TDZA3EH2HS789012", Make: "Toyota", Model: "Highlander", Year: 2017,
		Price: dec("23400"), Mileage: 78100, MileageRating: models.MileageAcceptable,
		TitleStatus: models.TitleClean, AccidentCount: 0, OwnerCount: 2,
		City: "Austin", State: "TX", DistanceMiles: 9.1, PriorityScore: 69,
		ListedAt: seedTime("2026-08-10"),
	},
	{
		VIN: "3VWC57BU8KM123456", Make: "Volkswagen", Model: "Jetta", Year: 2019,
		Price: dec("13950"), Mileage: 58700, MileageRating: models.MileageGood,
		TitleStatus: models.TitleClean, AccidentCount: 2, OwnerCount: 3,
		City: "San Marcos", State: "TX", DistanceMiles: 31.8, PriorityScore: 62,
		ListedAt: seedTime("2026-08-17"),
	},
	{
		VIN: "1C4RJFBG4LC331144", Make: "Jeep", Model: "Grand Cherokee", Year: 2020,
		Price: dec("26800"), Mileage: 49900, MileageRating: models.MileageGood,
		TitleStatus: models.TitleClean, AccidentCount: 1, OwnerCount: 1,
		City: "Austin", State: "TX", DistanceMiles: 11.3, PriorityScore: 77,
		ListedAt: seedTime("2026-08-19"),
	},
	{
		VIN: "KM8J33AL6JU667788", Make: "Hyundai", Model: "Tucson", Year: 2018,
		Price: dec("15300"), Mileage: 71500, MileageRating: models.MileageAcceptable,
		TitleStatus: models.TitleRebuilt, AccidentCount: 1, OwnerCount: 2,
		City: "Kyle", State: "TX", DistanceMiles: 24.4, PriorityScore: 55,
		ListedAt: seedTime("2026-08-08"),
	},
	{
		VIN: "1G1ZD5ST8JF112233", Make: "Chevrolet", Model: "Malibu", Year: 2018,
		Price: dec("12800"), Mileage: 96200, MileageRating: models.MileagePoor,
		TitleStatus: models.TitleClean, AccidentCount: 2, OwnerCount: 3,
		City: "Buda", State: "TX", DistanceMiles: 20.7, PriorityScore: 48,
		ListedAt: seedTime("2026-08-05"),
	},
	{
		VIN: "JM3KFBDM1J0445566", Make: "Mazda", Model: "CX-5", Year: 2018,
		Price: dec("17900"), Mileage: 55300, MileageRating: models.MileageGood,
		TitleStatus: models.TitleClean, AccidentCount: 0, OwnerCount: 2,
		City: "Leander", State: "TX", DistanceMiles: 27.5, PriorityScore: 80,
		ListedAt: seedTime("2026-08-22"),
	},
	{
		VIN: "5NPE34AF2HH990011", Make: "Hyundai", Model: "Sonata", Year: 2017,
		Price: dec("11250"), Mileage: 88400, MileageRating: models.MileagePoor,
		TitleStatus: models.TitleSalvage, AccidentCount: 3, OwnerCount: 4,
		City: "Bastrop", State: "TX", DistanceMiles: 35.2, PriorityScore: 33,
		ListedAt: seedTime("2026-08-02"),
	},
}

// SeedIfEmpty populates the repository with the fallback dataset when no
// listings are persisted yet.
func SeedIfEmpty(ctx context.Context, repo ListingRepository, logger *zap.Logger) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count before seed: %w", err)
	}
	if n > 0 {
		return nil
	}

	for i := range seedListings {
		l := seedListings[i]
		if err := repo.Create(ctx, &l); err != nil {
			return fmt.Errorf("seed listing %s: %w", l.VIN, err)
		}
	}
	logger.Info("seeded fallback listing dataset", zap.Int("count", len(seedListings)))
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedTime(day string) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic("seed: bad date " + day)
	}
	return t
}
