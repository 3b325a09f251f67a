// File: cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"telegram-video-bot/internal/config"
	"telegram-video-bot/internal/domain/model"
	pg "telegram-video-bot/internal/infra/db/postgres"
	"telegram-video-bot/internal/usecase"
)

// schema creates all tables the bot reads and writes. Idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS video_jobs (
	id BIGSERIAL PRIMARY KEY,
	job_id TEXT UNIQUE NOT NULL,
	user_id BIGINT NOT NULL,
	prompt TEXT,
	photos_json TEXT,
	status TEXT DEFAULT 'pending',
	video_path TEXT,
	error_message TEXT,
	created_at TIMESTAMPTZ DEFAULT now(),
	updated_at TIMESTAMPTZ DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_video_jobs_user ON video_jobs (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS recipes (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT,
	cuisine TEXT,
	ingredients TEXT,
	instructions TEXT,
	prep_time INTEGER,
	cook_time INTEGER,
	servings INTEGER,
	difficulty TEXT,
	is_favorite BOOLEAN DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS income_entries (
	id TEXT PRIMARY KEY,
	category_name TEXT,
	source_name TEXT,
	gross_amount DOUBLE PRECISION,
	net_amount DOUBLE PRECISION,
	bills_amount DOUBLE PRECISION,
	entry_date TIMESTAMPTZ,
	description TEXT,
	created_at TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	name TEXT,
	email TEXT,
	company TEXT,
	title TEXT,
	linkedin_url TEXT,
	status TEXT DEFAULT 'new',
	source TEXT,
	notes TEXT,
	created_at TIMESTAMPTZ DEFAULT now()
);
`

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("create schema: %v", err)
	}
	fmt.Println("schema ready")

	recipeRepo := pg.NewRecipeRepo(pool)
	mealUC := usecase.NewMealUseCase(recipeRepo)

	// If recipes already exist, do nothing
	recipes, err := mealUC.ListRecipes(ctx)
	if err != nil {
		log.Fatalf("list recipes: %v", err)
	}
	if len(recipes) > 0 {
		fmt.Printf("%d recipes already present. No changes.\n", len(recipes))
		return
	}

	for _, r := range starterRecipes() {
		if err := recipeRepo.Save(ctx, r); err != nil {
			log.Fatalf("seed recipe %q: %v", r.Name, err)
		}
		fmt.Printf("seeded recipe: %s\n", r.Name)
	}
}

func starterRecipes() []*model.Recipe {
	return []*model.Recipe{
		{
			Name:         "Spaghetti Carbonara",
			Category:     "Italian Classics",
			Cuisine:      "Italian",
			Ingredients:  []string{"400g spaghetti", "200g guanciale", "4 eggs", "100g Pecorino", "Black pepper"},
			Instructions: "Classic Roman pasta with eggs, cheese, and cured pork",
			PrepTime:     10,
			CookTime:     15,
			Servings:     2,
			Difficulty:   "Medium",
		},
		{
			Name:         "Chicken Tikka Masala",
			Category:     "Asian Favorites",
			Cuisine:      "Indian",
			Ingredients:  []string{"500g chicken", "Yogurt", "Tomato sauce", "Garam masala", "Cream", "Rice"},
			Instructions: "Creamy, spiced curry with tender chicken",
			PrepTime:     15,
			CookTime:     25,
			Servings:     2,
			Difficulty:   "Medium",
		},
		{
			Name:         "Pad Thai",
			Category:     "Asian Favorites",
			Cuisine:      "Thai",
			Ingredients:  []string{"Rice noodles", "Shrimp or chicken", "Eggs", "Bean sprouts", "Peanuts", "Tamarind"},
			Instructions: "Stir-fried noodles with sweet-sour-savory sauce",
			PrepTime:     15,
			CookTime:     15,
			Servings:     2,
			Difficulty:   "Medium",
		},
		{
			Name:         "Margherita Pizza",
			Category:     "Italian Classics",
			Cuisine:      "Italian",
			Ingredients:  []string{"Pizza dough", "San Marzano tomatoes", "Mozzarella", "Fresh basil", "Olive oil"},
			Instructions: "Simple, classic Neapolitan pizza",
			PrepTime:     20,
			CookTime:     15,
			Servings:     2,
			Difficulty:   "Easy",
		},
		{
			Name:         "Beef Stir Fry",
			Category:     "Quick & Easy",
			Cuisine:      "Asian",
			Ingredients:  []string{"300g beef strips", "Broccoli", "Soy sauce", "Ginger", "Garlic", "Rice"},
			Instructions: "Fast, flavorful weeknight dinner",
			PrepTime:     10,
			CookTime:     10,
			Servings:     2,
			Difficulty:   "Easy",
		},
		{
			Name:         "Risotto ai Funghi",
			Category:     "Italian Classics",
			Cuisine:      "Italian",
			Ingredients:  []string{"Arborio rice", "Mixed mushrooms", "White wine", "Parmesan", "Butter", "Stock"},
			Instructions: "Creamy rice with earthy mushrooms",
			PrepTime:     10,
			CookTime:     25,
			Servings:     2,
			Difficulty:   "Medium",
		},
	}
}
