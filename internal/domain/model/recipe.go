package model

// Recipe is a dinner suggestion served by the meal feature.
type Recipe struct {
	ID           int64
	Name         string
	Category     string
	Cuisine      string
	Ingredients  []string
	Instructions string
	PrepTime     int // minutes
	CookTime     int // minutes
	Servings     int
	Difficulty   string
	IsFavorite   bool
}
