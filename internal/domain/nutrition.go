package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// NutrientName identifies a nutrient in the catalog
type NutrientName string

const (
	Protein       NutrientName = "Protein"
	Calcium       NutrientName = "Calcium"
	Iron          NutrientName = "Iron"
	VitaminC      NutrientName = "Vitamin C"
	Fibre         NutrientName = "Fibre"
	Calories      NutrientName = "Calories"
	Carbohydrates NutrientName = "Carbohydrates"
	Sugar         NutrientName = "Sugar"
	Fat           NutrientName = "Fat"
	SaturatedFat  NutrientName = "Saturated Fat"
	TransFat      NutrientName = "Trans Fat"
	Cholesterol   NutrientName = "Cholesterol"
	Sodium        NutrientName = "Sodium"
)

// AllergenCategory is the ingredient category whose hits carry no risk score
const AllergenCategory = "potential allergen"

// Unit describes how a nutrient quantity is labelled
type Unit struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

var (
	Grams      = Unit{Short: "g", Long: "grams"}
	Milligrams = Unit{Short: "mg", Long: "milligrams"}
	KiloCal    = Unit{Short: "cal", Long: "calories"}
)

// NutrientSpec describes how to recognize and weigh a single nutrient
type NutrientSpec struct {
	Name    NutrientName
	Pattern *regexp.Regexp // exactly one capture group for the quantity
	Caution bool           // true when a high amount is undesirable
	Unit    Unit
	// DailyValue is the daily reference intake; zero means none is defined
	DailyValue float64
}

// HasDailyValue reports whether the nutrient has a daily reference intake
func (n NutrientSpec) HasDailyValue() bool {
	return n.DailyValue != 0
}

// IngredientCategory groups ingredient keywords under a risk label
type IngredientCategory struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// NutrientReading is the quantity found on a label for one nutrient.
// Value holds the matched text as-is; it is not validated as a number.
type NutrientReading struct {
	Value string `json:"value,omitempty"`
	Found bool   `json:"found"`
}

// IngredientHit is an ingredient keyword detected in the label text
type IngredientHit struct {
	Keyword   string `json:"keyword"`
	Category  string `json:"category"`
	RiskScore int    `json:"riskScore"`
}

// ExtractedFacts is the structured record built from one label
type ExtractedFacts struct {
	Nutrients   map[NutrientName]NutrientReading `json:"nutrients"`
	Ingredients []IngredientHit                  `json:"ingredients"`
}

// Report holds the tips and scores computed from extracted facts
type Report struct {
	Tips             []string `json:"tips"`
	NutritionScore   int      `json:"nutritionScore"`   // percent, 0-100
	IngredientsScore int      `json:"ingredientsScore"` // percent, 0-100
}

// SummaryLines returns the two score lines appended after the tips
func (r Report) SummaryLines() []string {
	return []string{
		fmt.Sprintf("Overall nutrition score: %d%%", r.NutritionScore),
		fmt.Sprintf("Overall ingredients score: %d%%", r.IngredientsScore),
	}
}

// String renders the report as newline-separated text
func (r Report) String() string {
	lines := make([]string, 0, len(r.Tips)+2)
	lines = append(lines, r.Tips...)
	lines = append(lines, r.SummaryLines()...)
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Analysis is the outcome of analyzing one label image
type Analysis struct {
	Facts      ExtractedFacts `json:"facts"`
	Report     Report         `json:"report"`
	Text       string         `json:"text"`   // rendered report
	Engine     string         `json:"engine"` // OCR engine name, empty for text input
	Cached     bool           `json:"cached"`
	AnalyzedAt time.Time      `json:"analyzedAt"`
	Duration   time.Duration  `json:"duration"`
}
