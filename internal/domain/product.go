package domain

import (
	"math"
	"time"
)

// Product action types recorded in the append-only action log.
const (
	ActionVerify = "verify"
	ActionReport = "report"
)

// SharedProduct is a crowd-sourced product document from the shared store.
type SharedProduct struct {
	ID                string        `json:"id"`
	Barcode           string        `json:"barcode,omitempty"`
	Name              string        `json:"name"`
	Brand             string        `json:"brand,omitempty"`
	Nutrition         NutritionInfo `json:"nutrition"`
	Category          string        `json:"category,omitempty"`
	PackageSize       string        `json:"packageSize,omitempty"`
	ImageURL          string        `json:"imageUrl,omitempty"`
	Description       string        `json:"description,omitempty"`
	ContributorID     string        `json:"contributorId"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	VerificationCount int           `json:"verificationCount"`
	ReportCount       int           `json:"reportCount"`
	IsVerified        bool          `json:"isVerified"`
}

// TrustScore computes the bounded [0,1] confidence value for a crowd-sourced
// product from its verification and report counters. Recomputed on every read;
// never stored.
func (p SharedProduct) TrustScore() float64 {
	score := 0.5
	score += math.Min(float64(p.VerificationCount)*0.1, 0.4)
	score -= math.Min(float64(p.ReportCount)*0.2, 0.3)
	if p.IsVerified {
		score += 0.2
	}
	return math.Min(1.0, math.Max(0.0, score))
}

// TrustDescription renders the trust score as a short user-facing annotation.
func (p SharedProduct) TrustDescription() string {
	score := p.TrustScore()
	switch {
	case score >= 0.8:
		return "community verified"
	case score >= 0.5:
		return "community contributed"
	default:
		return "unconfirmed community data"
	}
}

// ProductAction is one entry in the append-only verify/report log. The store
// enforces uniqueness over (ProductID, UserID, ActionType) so an anonymous
// user cannot action the same product twice.
type ProductAction struct {
	ProductID  string    `json:"productId"`
	UserID     string    `json:"userId"`
	ActionType string    `json:"actionType"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FoodItem is an entry from the bundled local dataset. Bundled data ships with
// the app and is considered fully trusted.
type FoodItem struct {
	Name      string        `json:"name"`
	Category  string        `json:"category,omitempty"`
	Nutrition NutritionInfo `json:"nutrition"`
}

// SearchResult is the tagged union returned by integrated search: exactly one
// of Local or Shared is set.
type SearchResult struct {
	Local  *FoodItem      `json:"local,omitempty"`
	Shared *SharedProduct `json:"shared,omitempty"`
}

// TrustScore returns 1.0 for bundled items and the computed score for shared
// products.
func (r SearchResult) TrustScore() float64 {
	switch {
	case r.Local != nil:
		return 1.0
	case r.Shared != nil:
		return r.Shared.TrustScore()
	default:
		return 0
	}
}

// DisplayName returns the food name regardless of which source produced it.
func (r SearchResult) DisplayName() string {
	switch {
	case r.Local != nil:
		return r.Local.Name
	case r.Shared != nil:
		return r.Shared.Name
	default:
		return ""
	}
}
