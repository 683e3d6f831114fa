package store

import (
	"database/sql"
	"fmt"
	"strings"

	"whosfordinner/internal/model"
)

const (
	minExtraGuests = 0
	maxExtraGuests = 99
)

type DinnerStore struct {
	db *sql.DB
}

func NewDinnerStore(db *sql.DB) *DinnerStore {
	return &DinnerStore{db: db}
}

func scanDinner(scanner interface{ Scan(...any) error }) (*model.Dinner, error) {
	var d model.Dinner
	var notes sql.NullString
	var mealID sql.NullInt64

	err := scanner.Scan(&d.ID, &d.Date, &mealID, &d.CreatedAt, &notes, &d.ExtraGuests)
	if err != nil {
		return nil, err
	}

	if mealID.Valid {
		d.MealID = &mealID.Int64
	}
	if notes.Valid {
		d.Notes = &notes.String
	}
	return &d, nil
}

const dinnerCols = `id, date, meal_id, created_at, notes, extra_guests`

// Ensure returns the dinner for date, creating it if absent. Creation and
// the default-attendance seed for the parents run in one transaction, so a
// dinner never appears without its seeded rows. Safe to call repeatedly:
// the UNIQUE(date) constraint guarantees a single row per date and the
// seed only fires on the creation branch.
func (s *DinnerStore) Ensure(date string) (*model.Dinner, error) {
	if existing, err := s.GetByDate(date); err != nil || existing != nil {
		return existing, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin ensure dinner: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT OR IGNORE INTO dinners (date) VALUES (?)`, date)
	if err != nil {
		return nil, fmt.Errorf("insert dinner: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}

	if affected > 0 {
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		for _, parent := range model.Parents() {
			if _, err := tx.Exec(
				`INSERT OR IGNORE INTO attendance (dinner_id, member) VALUES (?, ?)`,
				id, string(parent),
			); err != nil {
				return nil, fmt.Errorf("seed attendance: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ensure dinner: %w", err)
	}

	// Re-read outside the transaction; covers the concurrent-insert branch
	// where our INSERT OR IGNORE was a no-op.
	d, err := s.GetByDate(date)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("ensure dinner: row for %s missing after insert", date)
	}
	return d, nil
}

func (s *DinnerStore) GetByDate(date string) (*model.Dinner, error) {
	row := s.db.QueryRow(`SELECT `+dinnerCols+` FROM dinners WHERE date = ?`, date)
	d, err := scanDinner(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dinner by date: %w", err)
	}
	return d, nil
}

func (s *DinnerStore) GetByID(id int64) (*model.Dinner, error) {
	row := s.db.QueryRow(`SELECT `+dinnerCols+` FROM dinners WHERE id = ?`, id)
	d, err := scanDinner(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dinner: %w", err)
	}
	return d, nil
}

// SetMeal plans mealID for the dinner on date, creating the dinner if
// needed. A nil mealID clears the plan.
func (s *DinnerStore) SetMeal(date string, mealID *int64) error {
	d, err := s.Ensure(date)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`UPDATE dinners SET meal_id = ? WHERE id = ?`, mealID, d.ID)
	if err != nil {
		return fmt.Errorf("set dinner meal: %w", err)
	}
	return nil
}

// SetNotes stores trimmed free-text notes. Whitespace-only input is stored
// as NULL, never as an empty string.
func (s *DinnerStore) SetNotes(dinnerID int64, notes string) error {
	var value *string
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		value = &trimmed
	}
	_, err := s.db.Exec(`UPDATE dinners SET notes = ? WHERE id = ?`, value, dinnerID)
	if err != nil {
		return fmt.Errorf("set dinner notes: %w", err)
	}
	return nil
}

// SetExtraGuests records how many non-household guests are expected.
// Out-of-range values are clamped into [0, 99], not rejected.
func (s *DinnerStore) SetExtraGuests(dinnerID int64, n int) error {
	if n < minExtraGuests {
		n = minExtraGuests
	}
	if n > maxExtraGuests {
		n = maxExtraGuests
	}
	_, err := s.db.Exec(`UPDATE dinners SET extra_guests = ? WHERE id = ?`, n, dinnerID)
	if err != nil {
		return fmt.Errorf("set extra guests: %w", err)
	}
	return nil
}

// ListWithDetails returns the dinners for the given dates, ascending by
// date, each joined with its meal (nil when no plan) and attendance.
// Two queries instead of one joined result set: a dinner with several
// attendees would otherwise duplicate its meal columns per attendee.
func (s *DinnerStore) ListWithDetails(dates []string) ([]model.DinnerDetail, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(dates)-1) + "?"
	args := make([]any, len(dates))
	for i, d := range dates {
		args[i] = d
	}

	rows, err := s.db.Query(
		`SELECT d.`+strings.ReplaceAll(dinnerCols, ", ", ", d.")+`,
		        m.id, m.name, m.description, m.shopping_list, m.photo_key, m.created_at, m.deleted
		 FROM dinners d
		 LEFT JOIN meals m ON d.meal_id = m.id
		 WHERE d.date IN (`+placeholders+`)
		 ORDER BY d.date ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list dinners: %w", err)
	}
	defer rows.Close()

	var details []model.DinnerDetail
	for rows.Next() {
		var d model.Dinner
		var notes sql.NullString
		var mealID sql.NullInt64
		var mID sql.NullInt64
		var mName, mDescription, mShoppingList, mPhotoKey sql.NullString
		var mCreatedAt sql.NullTime
		var mDeleted sql.NullInt64

		err := rows.Scan(
			&d.ID, &d.Date, &mealID, &d.CreatedAt, &notes, &d.ExtraGuests,
			&mID, &mName, &mDescription, &mShoppingList, &mPhotoKey, &mCreatedAt, &mDeleted,
		)
		if err != nil {
			return nil, fmt.Errorf("scan dinner: %w", err)
		}

		if mealID.Valid {
			d.MealID = &mealID.Int64
		}
		if notes.Valid {
			d.Notes = &notes.String
		}

		detail := model.DinnerDetail{Dinner: d}
		if mID.Valid {
			meal := model.Meal{
				ID:        mID.Int64,
				Name:      mName.String,
				CreatedAt: mCreatedAt.Time,
				Archived:  mDeleted.Int64 != 0,
			}
			if mDescription.Valid {
				meal.Description = &mDescription.String
			}
			if mShoppingList.Valid {
				meal.ShoppingList = &mShoppingList.String
			}
			if mPhotoKey.Valid {
				meal.PhotoKey = &mPhotoKey.String
			}
			detail.Meal = &meal
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(details) == 0 {
		return nil, nil
	}

	attendance, err := s.attendanceByDinner(details)
	if err != nil {
		return nil, err
	}
	for i := range details {
		details[i].Attendance = attendance[details[i].ID]
	}
	return details, nil
}

func (s *DinnerStore) attendanceByDinner(details []model.DinnerDetail) (map[int64][]model.Member, error) {
	placeholders := strings.Repeat("?,", len(details)-1) + "?"
	args := make([]any, len(details))
	for i, d := range details {
		args[i] = d.ID
	}

	rows, err := s.db.Query(
		`SELECT dinner_id, member FROM attendance WHERE dinner_id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	byDinner := make(map[int64][]model.Member)
	for rows.Next() {
		var dinnerID int64
		var member string
		if err := rows.Scan(&dinnerID, &member); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		byDinner[dinnerID] = append(byDinner[dinnerID], model.Member(member))
	}
	return byDinner, rows.Err()
}
