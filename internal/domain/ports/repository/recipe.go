package repository

import (
	"context"

	"telegram-video-bot/internal/domain/model"
)

type RecipeRepository interface {
	Save(ctx context.Context, recipe *model.Recipe) error
	FindByID(ctx context.Context, id int64) (*model.Recipe, error)
	// Random returns one random recipe, optionally restricted to a category.
	Random(ctx context.Context, category string) (*model.Recipe, error)
	List(ctx context.Context) ([]*model.Recipe, error)
}
