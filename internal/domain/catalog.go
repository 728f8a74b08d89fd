package domain

import "regexp"

// Catalog is the read-only set of nutrients and ingredient categories a label is checked against
type Catalog struct {
	Nutrients   []NutrientSpec
	Ingredients []IngredientCategory
}

// Size returns the number of nutrients in the catalog
func (c *Catalog) Size() int {
	return len(c.Nutrients)
}

// Nutrient looks up a nutrient spec by name
func (c *Catalog) Nutrient(name NutrientName) (NutrientSpec, bool) {
	for _, n := range c.Nutrients {
		if n.Name == name {
			return n, true
		}
	}
	return NutrientSpec{}, false
}

// Patterns run over normalized text: lowercase, spaces removed.
// Labels are read in French; "o" is accepted in quantities because OCR confuses it with "0".
var defaultCatalog = &Catalog{
	Nutrients: []NutrientSpec{
		{Name: Protein, Pattern: regexp.MustCompile(`protéines([\do\.]+)g`), Unit: Grams, DailyValue: 55},
		{Name: Calcium, Pattern: regexp.MustCompile(`calcium([\do.]+)mg`), Unit: Milligrams, DailyValue: 1300},
		{Name: Iron, Pattern: regexp.MustCompile(`fer([\do.]+)mg`), Unit: Milligrams, DailyValue: 8},
		{Name: VitaminC, Pattern: regexp.MustCompile(`vitaminec([\do.]+)mg`), Unit: Milligrams, DailyValue: 75},
		{Name: Fibre, Pattern: regexp.MustCompile(`fibres([\do.]+)g`), Unit: Grams, DailyValue: 30},
		{Name: Calories, Pattern: regexp.MustCompile(`calories([\do]+)`), Caution: true, Unit: KiloCal, DailyValue: 2000},
		{Name: Carbohydrates, Pattern: regexp.MustCompile(`glucides([\do.]+)g`), Caution: true, Unit: Grams, DailyValue: 225},
		{Name: Sugar, Pattern: regexp.MustCompile(`sucres([\do.]+)g`), Caution: true, Unit: Grams, DailyValue: 36},
		{Name: Fat, Pattern: regexp.MustCompile(`lipides([\do\.]+)g`), Caution: true, Unit: Grams, DailyValue: 44},
		{Name: SaturatedFat, Pattern: regexp.MustCompile(`saturés([\do\.]+)g`), Caution: true, Unit: Grams, DailyValue: 30},
		{Name: TransFat, Pattern: regexp.MustCompile(`trans([\do\.]+)g`), Caution: true, Unit: Grams, DailyValue: 2.2},
		{Name: Cholesterol, Pattern: regexp.MustCompile(`cholestér[ona]l([\do\.]+)mg`), Caution: true, Unit: Milligrams, DailyValue: 300},
		{Name: Sodium, Pattern: regexp.MustCompile(`sodium([\do\.]+)mg`), Caution: true, Unit: Milligrams, DailyValue: 2000},
	},
	Ingredients: []IngredientCategory{
		{
			Name: AllergenCategory,
			Keywords: []string{
				"milk", "eggs", "peanuts", "tree nuts", "soy", "wheat", "fish", "shellfish",
				"gluten", "mustard", "celery", "lupin", "mollusks", "corn", "kiwi", "tomatoes",
				"peas", "paprika", "sesame seeds",
			},
		},
		{
			// Spelling kept: clients match on this label.
			Name:     "artifical preservative",
			Keywords: []string{"sulfites", "monosodium glutamate", "butylated hydroxyanisole", "tertiary butylhydroquinone"},
		},
		{
			Name:     "artificial flavor",
			Keywords: []string{"artificial flavors", "vanillin", "ethyl maltol"},
		},
		{
			Name:     "artificial color",
			Keywords: []string{"artificial colors", "red 40", "yellow 5", "blue 1"},
		},
		{
			Name:     "added sugar",
			Keywords: []string{"corn syrup", "glucose syrup", "malt syrup", "molasses"},
		},
	},
}

// DefaultCatalog returns the built-in catalog. Callers must not modify it.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}
