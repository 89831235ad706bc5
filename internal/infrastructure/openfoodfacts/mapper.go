package openfoodfacts

import (
	"time"

	"github.com/nutrilog/backend/internal/domain"
)

// mapProduct converts an API product body into the unified shared-product
// shape. Nutriment values arrive on a per-100g basis; sugar falls back to
// 80% of carbohydrates when the field is missing, and sodium converts from
// grams to milligrams.
func mapProduct(barcode string, body *productBody) *domain.SharedProduct {
	now := time.Now()
	return &domain.SharedProduct{
		Barcode:     barcode,
		Name:        body.ProductName,
		Brand:       body.Brands,
		PackageSize: body.Quantity,
		ImageURL:    body.ImageURL,
		Nutrition:   mapNutriments(body.Nutriments),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func mapNutriments(n nutriments) domain.NutritionInfo {
	info := domain.NutritionInfo{
		Calories:      valueOrZero(n.EnergyKcal100g),
		Protein:       valueOrZero(n.Proteins100g),
		Fat:           valueOrZero(n.Fat100g),
		Carbohydrates: valueOrZero(n.Carbs100g),
		ServingSize:   100,
	}

	if n.Sugars100g != nil {
		info.Sugar = *n.Sugars100g
	} else {
		info.Sugar = info.Carbohydrates * 0.8
	}

	if n.Fiber100g != nil {
		info.Fiber = domain.Float64Ptr(*n.Fiber100g)
	}
	if n.Sodium100g != nil {
		info.Sodium = domain.Float64Ptr(*n.Sodium100g * 1000)
	}

	return info
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
