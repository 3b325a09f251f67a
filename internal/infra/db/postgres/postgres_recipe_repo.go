package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/domain/ports/repository"
)

var _ repository.RecipeRepository = (*recipeRepo)(nil)

type recipeRepo struct {
	pool *pgxpool.Pool
}

func NewRecipeRepo(pool *pgxpool.Pool) *recipeRepo {
	return &recipeRepo{pool: pool}
}

// Save inserts a new recipe or, when the id is already set, updates the row.
func (r *recipeRepo) Save(ctx context.Context, recipe *model.Recipe) error {
	ingredients := strings.Join(recipe.Ingredients, "\n")

	if recipe.ID != 0 {
		const q = `
UPDATE recipes
SET name = $2, category = $3, cuisine = $4, ingredients = $5, instructions = $6,
    prep_time = $7, cook_time = $8, servings = $9, difficulty = $10, is_favorite = $11
WHERE id = $1;`
		tag, err := r.pool.Exec(ctx, q,
			recipe.ID, recipe.Name, recipe.Category, recipe.Cuisine, ingredients, recipe.Instructions,
			recipe.PrepTime, recipe.CookTime, recipe.Servings, recipe.Difficulty, recipe.IsFavorite,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	}

	const q = `
INSERT INTO recipes (name, category, cuisine, ingredients, instructions, prep_time, cook_time, servings, difficulty, is_favorite)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id;`
	return r.pool.QueryRow(ctx, q,
		recipe.Name, recipe.Category, recipe.Cuisine, ingredients, recipe.Instructions,
		recipe.PrepTime, recipe.CookTime, recipe.Servings, recipe.Difficulty, recipe.IsFavorite,
	).Scan(&recipe.ID)
}

func (r *recipeRepo) FindByID(ctx context.Context, id int64) (*model.Recipe, error) {
	const q = selectRecipe + ` WHERE id = $1;`
	return scanRecipe(r.pool.QueryRow(ctx, q, id))
}

func (r *recipeRepo) Random(ctx context.Context, category string) (*model.Recipe, error) {
	if category != "" {
		const q = selectRecipe + ` WHERE category = $1 ORDER BY random() LIMIT 1;`
		return scanRecipe(r.pool.QueryRow(ctx, q, category))
	}
	const q = selectRecipe + ` ORDER BY random() LIMIT 1;`
	return scanRecipe(r.pool.QueryRow(ctx, q))
}

func (r *recipeRepo) List(ctx context.Context) ([]*model.Recipe, error) {
	const q = selectRecipe + ` ORDER BY name;`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*model.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

const selectRecipe = `
SELECT id, name, category, cuisine, ingredients, instructions, prep_time, cook_time, servings, difficulty, is_favorite
FROM recipes`

func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var rec model.Recipe
	var ingredients string
	err := row.Scan(&rec.ID, &rec.Name, &rec.Category, &rec.Cuisine, &ingredients,
		&rec.Instructions, &rec.PrepTime, &rec.CookTime, &rec.Servings, &rec.Difficulty, &rec.IsFavorite)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if ingredients != "" {
		rec.Ingredients = strings.Split(ingredients, "\n")
	}
	return &rec, nil
}
