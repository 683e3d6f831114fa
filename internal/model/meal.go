package model

import (
	"strings"
	"time"
)

// Meal is a reusable dish selectable for any dinner. Archived meals keep
// their row (past dinners may reference them) but sort after active ones.
type Meal struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	ShoppingList *string   `json:"shopping_list"`
	PhotoKey     *string   `json:"photo_key"`
	CreatedAt    time.Time `json:"created_at"`
	Archived     bool      `json:"archived"`
}

// ShoppingItems splits the newline-delimited shopping list into trimmed,
// non-empty lines.
func (m *Meal) ShoppingItems() []string {
	if m.ShoppingList == nil {
		return nil
	}
	var items []string
	for _, line := range strings.Split(*m.ShoppingList, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}
