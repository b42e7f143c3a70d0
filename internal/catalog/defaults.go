package catalog

// Defaults is the immutable category and shelf-life lookup injected into the
// catalog at startup. Keys are already normalized; callers must go through
// Normalize before lookup.
type Defaults struct {
	categories map[string]string
	shelfLife  map[string]int
}

// FallbackCategory is used when a food name has no category entry.
const FallbackCategory = "other"

// Category returns the default category for a normalized name.
func (d *Defaults) Category(normalized string) string {
	if c, ok := d.categories[normalized]; ok {
		return c
	}
	return FallbackCategory
}

// ShelfLifeDays returns the default shelf life for a normalized name, or
// false when the table has no entry.
func (d *Defaults) ShelfLifeDays(normalized string) (int, bool) {
	days, ok := d.shelfLife[normalized]
	return days, ok
}

// LoadDefaults builds the built-in lookup tables. Shelf lives are
// conservative safety windows for refrigerated storage; categories cover the
// label set the classifier can emit plus common groceries.
func LoadDefaults() *Defaults {
	return &Defaults{
		categories: map[string]string{
			"milk":   "dairy",
			"yogurt": "dairy",
			"cheese": "dairy",
			"butter": "dairy",

			"chicken": "meat",
			"beef":    "meat",
			"sausage": "meat",
			"ham":     "meat",
			"fish":    "fish",

			"apple":      "fruit",
			"banana":     "fruit",
			"strawberry": "fruit",
			"orange":     "fruit",
			"grapes":     "fruit",
			"watermelon": "fruit",

			"tomato":   "vegetable",
			"lettuce":  "vegetable",
			"cucumber": "vegetable",
			"carrot":   "vegetable",
			"potato":   "vegetable",
			"onion":    "vegetable",

			"juice": "beverage",
			"soda":  "beverage",

			"eggs": "eggs",

			"ketchup":    "condiment",
			"mayonnaise": "condiment",

			"cooked rice":         "prepared",
			"leftovers":           "prepared",
			"caesar_salad":        "prepared",
			"chicken_wings":       "prepared",
			"french_fries":        "prepared",
			"fried_rice":          "prepared",
			"hamburger":           "prepared",
			"pizza":               "prepared",
			"spaghetti_bolognese": "prepared",
			"steak":               "prepared",
			"sushi":               "prepared",

			"ice_cream": "frozen",
		},
		shelfLife: map[string]int{
			"milk":    7,
			"yogurt":  14,
			"cheese":  14, // soft/semi-soft; hard cheeses last longer
			"butter":  60,
			"chicken": 2, // raw
			"beef":    5,
			"fish":    2, // raw
			"sausage": 7,
			"ham":     5,

			"apple":      45,
			"banana":     5,
			"strawberry": 5,
			"orange":     28,
			"grapes":     10,
			"watermelon": 5, // cut pieces

			"tomato":   7,
			"lettuce":  7,
			"cucumber": 7,
			"carrot":   21,
			"potato":   28,
			"onion":    30,

			"juice": 10, // opened, pasteurized
			"soda":  3,

			"eggs": 35,

			"ketchup":    180,
			"mayonnaise": 60,

			"cooked rice": 4,
			"leftovers":   4,
		},
	}
}
