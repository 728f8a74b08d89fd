package usecase

import (
	"strings"

	"github.com/labelscan/backend/internal/domain"
)

// FactExtractor reads nutrient quantities and ingredient keywords out of normalized label text
type FactExtractor struct {
	catalog *domain.Catalog
}

// NewFactExtractor creates an extractor over the given catalog.
// A nil catalog falls back to the built-in one.
func NewFactExtractor(catalog *domain.Catalog) *FactExtractor {
	if catalog == nil {
		catalog = domain.DefaultCatalog()
	}
	return &FactExtractor{catalog: catalog}
}

// Extract builds the facts record for normalized text.
// Every catalog nutrient gets an entry, found or not.
func (e *FactExtractor) Extract(text string) domain.ExtractedFacts {
	facts := domain.ExtractedFacts{
		Nutrients:   make(map[domain.NutrientName]domain.NutrientReading, len(e.catalog.Nutrients)),
		Ingredients: []domain.IngredientHit{},
	}

	for _, nutrient := range e.catalog.Nutrients {
		facts.Nutrients[nutrient.Name] = readNutrient(nutrient, text)
	}

	for _, category := range e.catalog.Ingredients {
		for _, keyword := range category.Keywords {
			if strings.Contains(text, strings.ReplaceAll(keyword, " ", "")) {
				facts.Ingredients = append(facts.Ingredients, newIngredientHit(keyword, category.Name))
			}
		}
	}

	return facts
}

func readNutrient(nutrient domain.NutrientSpec, text string) domain.NutrientReading {
	match := nutrient.Pattern.FindStringSubmatch(text)
	if len(match) < 2 {
		return domain.NutrientReading{}
	}
	// OCR reads "0" as "o"; only the first one is corrected.
	return domain.NutrientReading{
		Value: strings.Replace(match[1], "o", "0", 1),
		Found: true,
	}
}

func newIngredientHit(keyword, category string) domain.IngredientHit {
	risk := 1
	if category == domain.AllergenCategory {
		risk = 0
	}
	return domain.IngredientHit{
		Keyword:   keyword,
		Category:  category,
		RiskScore: risk,
	}
}
