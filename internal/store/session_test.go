package store

import (
	"testing"
	"time"

	"whosfordinner/internal/database"
)

func setupSessionTestDB(t *testing.T) *SessionStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db)
}

func TestSessionIssue(t *testing.T) {
	ss := setupSessionTestDB(t)

	sess, err := ss.Issue()
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	if len(sess.Token) != 64 { // 32 bytes hex-encoded
		t.Errorf("token length = %d, want 64", len(sess.Token))
	}

	remaining := time.Until(sess.ExpiresAt)
	if remaining < 13*24*time.Hour || remaining > 15*24*time.Hour {
		t.Errorf("expiry %v from now, want ~14 days", remaining)
	}

	other, _ := ss.Issue()
	if other.Token == sess.Token {
		t.Error("two issued sessions share a token")
	}
}

func TestSessionValidate(t *testing.T) {
	ss := setupSessionTestDB(t)

	sess, _ := ss.Issue()

	ok, err := ss.Validate(sess.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !ok {
		t.Error("fresh session should validate")
	}
}

func TestSessionValidateUnknownToken(t *testing.T) {
	ss := setupSessionTestDB(t)

	ok, err := ss.Validate("nonexistent")
	if err != nil {
		t.Fatalf("validate unknown token must not error: %v", err)
	}
	if ok {
		t.Error("unknown token should not validate")
	}
}

func TestSessionValidateExpired(t *testing.T) {
	ss := setupSessionTestDB(t)

	sess, _ := ss.Issue()
	_, err := ss.db.Exec(
		`UPDATE sessions SET expires_at = ? WHERE token = ?`,
		time.Now().UTC().Add(-time.Minute), sess.Token,
	)
	if err != nil {
		t.Fatalf("backdate expiry: %v", err)
	}

	ok, err := ss.Validate(sess.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if ok {
		t.Error("expired session should not validate")
	}
}

func TestSessionRevoke(t *testing.T) {
	ss := setupSessionTestDB(t)

	sess, _ := ss.Issue()
	if err := ss.Revoke(sess.Token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, _ := ss.Validate(sess.Token)
	if ok {
		t.Error("revoked session should not validate")
	}

	// Revoking again is a silent no-op.
	if err := ss.Revoke(sess.Token); err != nil {
		t.Errorf("revoke absent token: %v", err)
	}
}

func TestSessionDeleteExpired(t *testing.T) {
	ss := setupSessionTestDB(t)

	live, _ := ss.Issue()
	stale, _ := ss.Issue()
	ss.db.Exec(
		`UPDATE sessions SET expires_at = ? WHERE token = ?`,
		time.Now().UTC().Add(-time.Hour), stale.Token,
	)

	count, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if count != 1 {
		t.Errorf("swept = %d, want 1", count)
	}

	if ok, _ := ss.Validate(live.Token); !ok {
		t.Error("live session swept")
	}
	var remaining int
	ss.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE token = ?`, stale.Token).Scan(&remaining)
	if remaining != 0 {
		t.Error("stale session row survived the sweep")
	}
}
