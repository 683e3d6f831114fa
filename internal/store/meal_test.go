package store

import (
	"errors"
	"testing"

	"whosfordinner/internal/database"
)

func setupMealTestDB(t *testing.T) (*MealStore, *DinnerStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMealStore(db), NewDinnerStore(db)
}

func strPtr(s string) *string { return &s }

func TestMealCreate(t *testing.T) {
	ms, _ := setupMealTestDB(t)

	meal, err := ms.Create("Tacos", nil, strPtr("Tuesday classic"), strPtr("mince\ntortillas\nsalsa"))
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if meal.Name != "Tacos" {
		t.Errorf("name = %q, want %q", meal.Name, "Tacos")
	}
	if meal.Archived {
		t.Error("new meal should not be archived")
	}
	if meal.Description == nil || *meal.Description != "Tuesday classic" {
		t.Errorf("description = %v, want %q", meal.Description, "Tuesday classic")
	}
	if got := meal.ShoppingItems(); len(got) != 3 {
		t.Errorf("shopping items = %v, want 3 entries", got)
	}
}

func TestMealCreateTrimsName(t *testing.T) {
	ms, _ := setupMealTestDB(t)

	meal, err := ms.Create("  Lasagne  ", nil, nil, nil)
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if meal.Name != "Lasagne" {
		t.Errorf("name = %q, want %q", meal.Name, "Lasagne")
	}
}

func TestMealCreateEmptyName(t *testing.T) {
	ms, _ := setupMealTestDB(t)

	if _, err := ms.Create("   ", nil, nil, nil); !errors.Is(err, ErrNameRequired) {
		t.Errorf("err = %v, want ErrNameRequired", err)
	}
}

func TestMealGetByIDNotFound(t *testing.T) {
	ms, _ := setupMealTestDB(t)

	meal, err := ms.GetByID(9999)
	if err != nil {
		t.Fatalf("get meal: %v", err)
	}
	if meal != nil {
		t.Error("expected nil for nonexistent meal")
	}
}

func TestMealUpdate(t *testing.T) {
	ms, _ := setupMealTestDB(t)

	meal, _ := ms.Create("Pizza", nil, nil, nil)
	if err := ms.Update(meal.ID, "Homemade Pizza", strPtr("meal-1-abc.webp"), strPtr("Friday night"), nil); err != nil {
		t.Fatalf("update meal: %v", err)
	}

	got, err := ms.GetByID(meal.ID)
	if err != nil {
		t.Fatalf("get meal: %v", err)
	}
	if got.Name != "Homemade Pizza" {
		t.Errorf("name = %q, want %q", got.Name, "Homemade Pizza")
	}
	if got.PhotoKey == nil || *got.PhotoKey != "meal-1-abc.webp" {
		t.Errorf("photo_key = %v, want meal-1-abc.webp", got.PhotoKey)
	}
	if got.Archived {
		t.Error("update must not touch the archived flag")
	}
}

func TestMealDeleteUnreferenced(t *testing.T) {
	ms, _ := setupMealTestDB(t)

	meal, _ := ms.Create("Soup", nil, nil, nil)
	if err := ms.Delete(meal.ID); err != nil {
		t.Fatalf("delete meal: %v", err)
	}

	got, err := ms.GetByID(meal.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("expected row gone after delete")
	}
}

func TestMealDeleteReferenced(t *testing.T) {
	ms, ds := setupMealTestDB(t)

	meal, _ := ms.Create("Curry", nil, nil, nil)
	if err := ds.SetMeal("2024-06-03", &meal.ID); err != nil {
		t.Fatalf("set dinner meal: %v", err)
	}

	referenced, err := ms.IsReferenced(meal.ID)
	if err != nil {
		t.Fatalf("is referenced: %v", err)
	}
	if !referenced {
		t.Fatal("expected meal to be referenced")
	}

	if err := ms.Delete(meal.ID); !errors.Is(err, ErrMealReferenced) {
		t.Fatalf("delete referenced meal: err = %v, want ErrMealReferenced", err)
	}

	// The row must survive; archive is the correct path.
	if err := ms.Archive(meal.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	got, _ := ms.GetByID(meal.ID)
	if got == nil {
		t.Fatal("archived meal vanished")
	}
	if !got.Archived {
		t.Error("expected archived flag set")
	}
}

func TestMealArchiveRestoreIdempotent(t *testing.T) {
	ms, _ := setupMealTestDB(t)

	meal, _ := ms.Create("Stir Fry", nil, nil, nil)

	for i := 0; i < 2; i++ {
		if err := ms.Archive(meal.ID); err != nil {
			t.Fatalf("archive #%d: %v", i+1, err)
		}
	}
	got, _ := ms.GetByID(meal.ID)
	if !got.Archived {
		t.Error("expected archived")
	}

	for i := 0; i < 2; i++ {
		if err := ms.Restore(meal.ID); err != nil {
			t.Fatalf("restore #%d: %v", i+1, err)
		}
	}
	got, _ = ms.GetByID(meal.ID)
	if got.Archived {
		t.Error("expected restored")
	}
}

func TestMealListOrdering(t *testing.T) {
	ms, _ := setupMealTestDB(t)

	ms.Create("Zucchini Bake", nil, nil, nil)
	archived, _ := ms.Create("Apple Pie", nil, nil, nil)
	ms.Create("Burgers", nil, nil, nil)
	ms.Archive(archived.ID)

	meals, err := ms.List()
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(meals) != 3 {
		t.Fatalf("len = %d, want 3", len(meals))
	}

	want := []string{"Burgers", "Zucchini Bake", "Apple Pie"}
	for i, name := range want {
		if meals[i].Name != name {
			t.Errorf("meals[%d].Name = %q, want %q", i, meals[i].Name, name)
		}
	}
	if meals[2].Name == "Apple Pie" && !meals[2].Archived {
		t.Error("archived meal should carry the archived flag")
	}
}
