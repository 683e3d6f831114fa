package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"whosfordinner/internal/model"
)

// ErrNameRequired is returned when a meal is created or updated with an
// empty (after trimming) name.
var ErrNameRequired = errors.New("meal name is required")

// ErrMealReferenced is returned by Delete when a dinner still references
// the meal. Callers should archive instead.
var ErrMealReferenced = errors.New("meal is referenced by a dinner")

type MealStore struct {
	db *sql.DB
}

func NewMealStore(db *sql.DB) *MealStore {
	return &MealStore{db: db}
}

func scanMeal(scanner interface{ Scan(...any) error }) (*model.Meal, error) {
	var m model.Meal
	var description, shoppingList, photoKey sql.NullString
	var deleted int

	err := scanner.Scan(&m.ID, &m.Name, &description, &shoppingList, &photoKey, &m.CreatedAt, &deleted)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		m.Description = &description.String
	}
	if shoppingList.Valid {
		m.ShoppingList = &shoppingList.String
	}
	if photoKey.Valid {
		m.PhotoKey = &photoKey.String
	}
	m.Archived = deleted != 0
	return &m, nil
}

const mealCols = `id, name, description, shopping_list, photo_key, created_at, deleted`

// List returns every meal, active before archived, alphabetical within
// each group. Archived meals stay listed so past dinners keep their label.
func (s *MealStore) List() ([]model.Meal, error) {
	rows, err := s.db.Query(`SELECT ` + mealCols + ` FROM meals ORDER BY deleted ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var meals []model.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, *m)
	}
	return meals, rows.Err()
}

func (s *MealStore) GetByID(id int64) (*model.Meal, error) {
	row := s.db.QueryRow(`SELECT `+mealCols+` FROM meals WHERE id = ?`, id)
	m, err := scanMeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return m, nil
}

// IsReferenced reports whether any dinner has this meal planned. It decides
// archive-versus-delete when a removal is requested.
func (s *MealStore) IsReferenced(mealID int64) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM dinners WHERE meal_id = ? LIMIT 1`, mealID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check meal references: %w", err)
	}
	return true, nil
}

// Create inserts a new, non-archived meal. Optional fields may be nil.
func (s *MealStore) Create(name string, photoKey, description, shoppingList *string) (*model.Meal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	result, err := s.db.Exec(
		`INSERT INTO meals (name, photo_key, description, shopping_list, deleted) VALUES (?, ?, ?, ?, 0)`,
		name, photoKey, description, shoppingList,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// Update replaces every mutable field. The archived flag is untouched.
func (s *MealStore) Update(id int64, name string, photoKey, description, shoppingList *string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}

	_, err := s.db.Exec(
		`UPDATE meals SET name = ?, photo_key = ?, description = ?, shopping_list = ? WHERE id = ?`,
		name, photoKey, description, shoppingList, id,
	)
	if err != nil {
		return fmt.Errorf("update meal: %w", err)
	}
	return nil
}

// SetPhotoKey points the meal at a newly uploaded photo.
func (s *MealStore) SetPhotoKey(id int64, key string) error {
	_, err := s.db.Exec(`UPDATE meals SET photo_key = ? WHERE id = ?`, key, id)
	if err != nil {
		return fmt.Errorf("set photo key: %w", err)
	}
	return nil
}

// Archive soft-deletes the meal. Idempotent.
func (s *MealStore) Archive(id int64) error {
	_, err := s.db.Exec(`UPDATE meals SET deleted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("archive meal: %w", err)
	}
	return nil
}

// Restore brings an archived meal back. Idempotent.
func (s *MealStore) Restore(id int64) error {
	_, err := s.db.Exec(`UPDATE meals SET deleted = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("restore meal: %w", err)
	}
	return nil
}

// Delete removes the row permanently. The statement refuses while any
// dinner references the meal, so a dinner planned between the caller's
// reference check and this delete cannot strand a dangling meal_id; the
// caller sees ErrMealReferenced and archives instead.
func (s *MealStore) Delete(id int64) error {
	result, err := s.db.Exec(
		`DELETE FROM meals WHERE id = ? AND NOT EXISTS (SELECT 1 FROM dinners WHERE meal_id = ?)`,
		id, id,
	)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		existing, err := s.GetByID(id)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrMealReferenced
		}
	}
	return nil
}
