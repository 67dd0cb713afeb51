// internal/storage/meals.go
package storage

import (
	"context"
	"fmt"

	"mcp-gut-check/internal/models"
)

func (s *SQLiteStorage) SaveMeal(ctx context.Context, meal *models.Meal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	mealQuery := `
        INSERT INTO meals (id, description, timestamp, source, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err = tx.ExecContext(ctx, mealQuery,
		meal.ID, meal.Description, formatTime(meal.Timestamp), meal.Source,
		formatTime(meal.CreatedAt), formatTime(meal.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}

	foodQuery := `
        INSERT INTO foods (meal_id, name, brand, ingredients, calories, protein, carbs, fat, fiber, sugar, sodium)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	for _, food := range meal.Foods {
		ingredients, err := encodeList(food.Ingredients)
		if err != nil {
			return fmt.Errorf("failed to encode ingredients for %q: %w", food.Name, err)
		}
		n := food.Nutrients
		_, err = tx.ExecContext(ctx, foodQuery,
			meal.ID, food.Name, food.Brand, ingredients,
			n.Calories, n.Protein, n.Carbs, n.Fat, n.Fiber, n.Sugar, n.Sodium)
		if err != nil {
			return fmt.Errorf("failed to insert food: %w", err)
		}
	}

	return tx.Commit()
}

// GetMeals returns meals inside window, newest first. A zero window bound is
// open-ended and limit <= 0 means no limit.
func (s *SQLiteStorage) GetMeals(ctx context.Context, window models.TimeWindow, limit int) ([]models.Meal, error) {
	query := `
        SELECT id, description, timestamp, source, created_at, updated_at
        FROM meals
        WHERE 1=1
    `
	query, args := windowClause(query, nil, "timestamp", window)
	query += " ORDER BY timestamp DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		var meal models.Meal
		var timestampStr, createdAtStr, updatedAtStr string

		err := rows.Scan(&meal.ID, &meal.Description, &timestampStr, &meal.Source,
			&createdAtStr, &updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}

		if meal.Timestamp, err = parseTime("timestamp", timestampStr); err != nil {
			return nil, err
		}
		if meal.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
			return nil, err
		}
		if meal.UpdatedAt, err = parseTime("updated_at", updatedAtStr); err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}
	rows.Close()

	// Foods are loaded after the meal cursor is closed; in-memory databases
	// run on a single connection.
	for i := range meals {
		if err := s.loadFoodsForMeal(ctx, &meals[i]); err != nil {
			return nil, fmt.Errorf("failed to load foods for meal %s: %w", meals[i].ID, err)
		}
	}

	return meals, nil
}

func (s *SQLiteStorage) loadFoodsForMeal(ctx context.Context, meal *models.Meal) error {
	query := `
        SELECT name, brand, ingredients, calories, protein, carbs, fat, fiber, sugar, sodium
        FROM foods
        WHERE meal_id = ?
        ORDER BY id
    `

	rows, err := s.db.QueryContext(ctx, query, meal.ID)
	if err != nil {
		return fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	var foods []models.FoodItem
	for rows.Next() {
		var food models.FoodItem
		var ingredients string
		n := &food.Nutrients

		err := rows.Scan(&food.Name, &food.Brand, &ingredients,
			&n.Calories, &n.Protein, &n.Carbs, &n.Fat, &n.Fiber, &n.Sugar, &n.Sodium)
		if err != nil {
			return fmt.Errorf("failed to scan food: %w", err)
		}
		if food.Ingredients, err = decodeList(ingredients); err != nil {
			return fmt.Errorf("failed to decode ingredients: %w", err)
		}
		foods = append(foods, food)
	}

	meal.Foods = foods
	return rows.Err()
}
