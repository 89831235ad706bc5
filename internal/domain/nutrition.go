package domain

// NutritionInfo is an immutable nutrient vector. ServingSize is the gram basis
// the other fields correspond to; it is zero only for the Empty sentinel.
// Fiber, Sodium, Calcium and Iron are optional: a nil pointer means the source
// did not report the nutrient, which is distinct from reporting zero.
type NutritionInfo struct {
	Calories      float64  `json:"calories"`
	Protein       float64  `json:"protein"`       // grams
	Fat           float64  `json:"fat"`           // grams
	Carbohydrates float64  `json:"carbohydrates"` // grams
	Sugar         float64  `json:"sugar"`         // grams
	ServingSize   float64  `json:"servingSize"`   // gram basis
	Fiber         *float64 `json:"fiber,omitempty"`
	Sodium        *float64 `json:"sodium,omitempty"` // milligrams
	Calcium       *float64 `json:"calcium,omitempty"`
	Iron          *float64 `json:"iron,omitempty"`
}

// EmptyNutrition is the canonical zero sentinel and the additive identity.
var EmptyNutrition = NutritionInfo{}

// IsEmpty reports whether n is the empty sentinel.
func (n NutritionInfo) IsEmpty() bool {
	return n.ServingSize == 0
}

// ScaledTo returns a copy of n rebased to the given gram amount. Every field
// is multiplied by grams/ServingSize; optional fields scale when present and
// stay absent otherwise. Scaling the empty sentinel returns the sentinel.
func (n NutritionInfo) ScaledTo(grams float64) NutritionInfo {
	if n.ServingSize == 0 {
		return n
	}
	factor := grams / n.ServingSize
	return NutritionInfo{
		Calories:      n.Calories * factor,
		Protein:       n.Protein * factor,
		Fat:           n.Fat * factor,
		Carbohydrates: n.Carbohydrates * factor,
		Sugar:         n.Sugar * factor,
		ServingSize:   grams,
		Fiber:         scaleOptional(n.Fiber, factor),
		Sodium:        scaleOptional(n.Sodium, factor),
		Calcium:       scaleOptional(n.Calcium, factor),
		Iron:          scaleOptional(n.Iron, factor),
	}
}

// Add returns the field-wise sum of n and other. Missing optional fields are
// identity-absorbing: present+absent yields the present value unchanged, and
// absent+absent stays absent. The gram bases sum as well, so summing a day's
// records yields the total consumed amount.
func (n NutritionInfo) Add(other NutritionInfo) NutritionInfo {
	return NutritionInfo{
		Calories:      n.Calories + other.Calories,
		Protein:       n.Protein + other.Protein,
		Fat:           n.Fat + other.Fat,
		Carbohydrates: n.Carbohydrates + other.Carbohydrates,
		Sugar:         n.Sugar + other.Sugar,
		ServingSize:   n.ServingSize + other.ServingSize,
		Fiber:         addOptional(n.Fiber, other.Fiber),
		Sodium:        addOptional(n.Sodium, other.Sodium),
		Calcium:       addOptional(n.Calcium, other.Calcium),
		Iron:          addOptional(n.Iron, other.Iron),
	}
}

// FiberOrZero returns the fiber value, treating absent as zero. Used at the
// local-store boundary where fiber and sodium are persisted as plain scalars.
func (n NutritionInfo) FiberOrZero() float64 {
	if n.Fiber == nil {
		return 0
	}
	return *n.Fiber
}

// SodiumOrZero returns the sodium value in milligrams, treating absent as zero.
func (n NutritionInfo) SodiumOrZero() float64 {
	if n.Sodium == nil {
		return 0
	}
	return *n.Sodium
}

func scaleOptional(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := *v * factor
	return &scaled
}

func addOptional(a, b *float64) *float64 {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		sum := *b
		return &sum
	case b == nil:
		sum := *a
		return &sum
	default:
		sum := *a + *b
		return &sum
	}
}

// Float64Ptr is a convenience for building optional nutrient values.
func Float64Ptr(v float64) *float64 {
	return &v
}
