package handler

import (
	"database/sql"
	"html/template"
	"log/slog"
	"testing"

	"whosfordinner/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// testTemplates builds minimal stand-ins for the real templates; the
// handlers only need ExecuteTemplate to resolve the names.
func testTemplates(t *testing.T) *template.Template {
	t.Helper()
	tmpl := template.New("")
	template.Must(tmpl.New("login.html").Parse(`login{{if .}}{{if .Error}} {{.Error}}{{end}}{{end}}`))
	template.Must(tmpl.New("week.html").Parse(`week of {{.WeekStart}}: {{len .Days}} days`))
	template.Must(tmpl.New("meals.html").Parse(`meals: {{len .Meals}}`))
	return tmpl
}

func testLogger() *slog.Logger {
	return slog.Default()
}
