package usecase

import (
	"context"

	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/domain/ports/repository"
)

var _ MealUseCase = (*mealUC)(nil)

// MealUseCase serves dinner suggestions. Plain lookups, no state.
type MealUseCase interface {
	SuggestDinner(ctx context.Context, category string) (*model.Recipe, error)
	ListRecipes(ctx context.Context) ([]*model.Recipe, error)
	// ToggleFavorite flips the favorite flag and returns the updated recipe.
	ToggleFavorite(ctx context.Context, id int64) (*model.Recipe, error)
}

type mealUC struct {
	recipes repository.RecipeRepository
}

func NewMealUseCase(recipes repository.RecipeRepository) *mealUC {
	return &mealUC{recipes: recipes}
}

func (m *mealUC) SuggestDinner(ctx context.Context, category string) (*model.Recipe, error) {
	return m.recipes.Random(ctx, category)
}

func (m *mealUC) ListRecipes(ctx context.Context) ([]*model.Recipe, error) {
	return m.recipes.List(ctx)
}

func (m *mealUC) ToggleFavorite(ctx context.Context, id int64) (*model.Recipe, error) {
	recipe, err := m.recipes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	recipe.IsFavorite = !recipe.IsFavorite
	if err := m.recipes.Save(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}
