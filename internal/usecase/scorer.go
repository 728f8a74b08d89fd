package usecase

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/labelscan/backend/internal/domain"
)

// Scoring constants
const (
	baseIngredientsScore = 6.0
	highIntakeRatio      = 0.15 // share of the daily value that counts as "high"
	minBeneficialCount   = 2
)

// Tip markers; three spaces separate the marker from the message
const (
	starMarker    = "⭐   "
	warningMarker = "⚠️   "
)

// LowNutrientTip is appended when fewer than two beneficial nutrients are high
const LowNutrientTip = "This food contains a low number of significant nutrients, consider a food with greater nutritional value"

// Scorer reduces extracted facts to scores and tips
type Scorer struct {
	catalog *domain.Catalog
}

// NewScorer creates a scorer over the given catalog.
// A nil catalog falls back to the built-in one.
func NewScorer(catalog *domain.Catalog) *Scorer {
	if catalog == nil {
		catalog = domain.DefaultCatalog()
	}
	return &Scorer{catalog: catalog}
}

// Score computes the nutrition and ingredient scores for facts.
// Readings that do not parse as numbers count as NaN and poison the nutrition score.
func (s *Scorer) Score(facts domain.ExtractedFacts) (domain.Report, error) {
	if s == nil || s.catalog == nil || s.catalog.Size() == 0 {
		return domain.Report{}, domain.ErrInvalidCatalog
	}

	maxNutritionScore := float64(s.catalog.Size())
	nutritionScore := maxNutritionScore / 2
	ingredientsScore := baseIngredientsScore
	beneficialCount := 0
	tips := []string{}

	for _, nutrient := range s.catalog.Nutrients {
		reading, ok := facts.Nutrients[nutrient.Name]
		if !ok || !reading.Found || !nutrient.HasDailyValue() {
			continue
		}

		fact := parseQuantity(reading.Value)
		sign := 1.0
		if nutrient.Caution {
			sign = -1.0
		}
		nutritionScore += fact / nutrient.DailyValue * sign

		if fact > nutrient.DailyValue*highIntakeRatio {
			marker := warningMarker
			if !nutrient.Caution {
				beneficialCount++
				marker = starMarker
			}
			tips = append(tips, fmt.Sprintf("%sContains high %s: %s %s", marker, nutrient.Name, reading.Value, nutrient.Unit.Long))
		}
	}

	for _, hit := range facts.Ingredients {
		ingredientsScore -= float64(hit.RiskScore)
		tips = append(tips, fmt.Sprintf("%sContains %s %s", warningMarker, hit.Category, hit.Keyword))
	}

	if beneficialCount < minBeneficialCount {
		tips = append(tips, LowNutrientTip)
	}

	return domain.Report{
		Tips:             tips,
		NutritionScore:   percent(nutritionScore, maxNutritionScore),
		IngredientsScore: percent(ingredientsScore, baseIngredientsScore),
	}, nil
}

// parseQuantity converts a matched reading to a number; malformed text becomes NaN.
// A reading starting with "oo" turns into an octal literal after the "o" fix and is read as one.
func parseQuantity(value string) float64 {
	if strings.HasPrefix(value, "0o") {
		return parseOctal(value[2:])
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		// Out-of-range values keep their ±Inf result.
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

func parseOctal(digits string) float64 {
	if digits == "" {
		return math.NaN()
	}
	var f float64
	for _, r := range digits {
		if r < '0' || r > '7' {
			return math.NaN()
		}
		f = f*8 + float64(r-'0')
	}
	return f
}

func percent(score, max float64) int {
	return int(Clamp(math.Floor(score/max*100), 0, 100))
}

// Clamp returns hi when n > hi, n when n > lo, and lo otherwise.
// NaN fails both comparisons and yields lo.
func Clamp(n, lo, hi float64) float64 {
	if n > hi {
		return hi
	}
	if n > lo {
		return n
	}
	return lo
}
