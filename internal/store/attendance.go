package store

import (
	"database/sql"
	"fmt"

	"whosfordinner/internal/model"
)

type AttendanceStore struct {
	db *sql.DB
}

func NewAttendanceStore(db *sql.DB) *AttendanceStore {
	return &AttendanceStore{db: db}
}

// Set marks the member attending or not attending the dinner. Both
// directions are idempotent: marking an attendee attending again or
// removing an absent one is a no-op, never an error.
func (s *AttendanceStore) Set(dinnerID int64, member model.Member, attending bool) error {
	if attending {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO attendance (dinner_id, member) VALUES (?, ?)`,
			dinnerID, string(member),
		)
		if err != nil {
			return fmt.Errorf("add attendance: %w", err)
		}
		return nil
	}

	_, err := s.db.Exec(
		`DELETE FROM attendance WHERE dinner_id = ? AND member = ?`,
		dinnerID, string(member),
	)
	if err != nil {
		return fmt.Errorf("remove attendance: %w", err)
	}
	return nil
}

// ListByDinner returns the members attending a single dinner, in insertion
// order.
func (s *AttendanceStore) ListByDinner(dinnerID int64) ([]model.Member, error) {
	rows, err := s.db.Query(`SELECT member FROM attendance WHERE dinner_id = ?`, dinnerID)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		members = append(members, model.Member(member))
	}
	return members, rows.Err()
}
