package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bgpanel/config"
	"bgpanel/core/utils"
)

func openTestDB(t *testing.T) *testDeps {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "panel.db"),
	}
	logger := utils.NewLogger()
	db, err := NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := ApplyMigrations(context.Background(), db, logger); err != nil {
		t.Fatalf("ApplyMigrations: %v", err)
	}
	return &testDeps{
		users:    NewUsersStore(db),
		sessions: NewSessionsStore(db),
		boxes:    NewBoxesStore(db),
		os:       NewOSStore(db),
		audit:    NewAuditStore(db),
	}
}

type testDeps struct {
	users    UsersStore
	sessions SessionsStore
	boxes    BoxesStore
	os       OSStore
	audit    AuditStore
}

func TestUsersStoreRoundTrip(t *testing.T) {
	deps := openTestDB(t)
	ctx := context.Background()

	id, err := deps.users.Create(ctx, &User{
		Username: "peter",
		Email:    "peter@example.com",
		Role:     "Admin",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected non-zero id")
	}

	u, err := deps.users.FindByUsername(ctx, "peter")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if u == nil || u.Email != "peter@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if !u.IsActive() {
		t.Fatalf("new user should default to Active")
	}

	missing, err := deps.users.FindByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("FindByUsername missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing user, got %+v", missing)
	}

	wrongPair, err := deps.users.FindByUsernameEmail(ctx, "peter", "other@example.com")
	if err != nil {
		t.Fatalf("FindByUsernameEmail: %v", err)
	}
	if wrongPair != nil {
		t.Fatalf("username+email must match as a pair")
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := deps.users.RecordLogin(ctx, id, at, "10.0.0.1", "host.local", "tok"); err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}
	u, err = deps.users.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.LastIP != "10.0.0.1" || u.LastLoginAt == nil {
		t.Fatalf("login metadata not recorded: %+v", u)
	}

	if err := deps.users.UpdatePassword(ctx, id, "hash2", "salt2"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	u, _ = deps.users.Get(ctx, id)
	if u.PasswordHash != "hash2" || u.Salt != "salt2" {
		t.Fatalf("password not updated: %+v", u)
	}
}

func TestSessionsStoreExpiry(t *testing.T) {
	deps := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	live := &SessionRecord{
		ID: "live", UserID: 1, Username: "peter", Role: "Admin",
		CreatedAt: now, LastSeenAt: now, ExpiresAt: now.Add(time.Hour),
	}
	stale := &SessionRecord{
		ID: "stale", UserID: 1, Username: "peter", Role: "Admin",
		CreatedAt: now.Add(-2 * time.Hour), LastSeenAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	for _, rec := range []*SessionRecord{live, stale} {
		if err := deps.sessions.Save(ctx, rec); err != nil {
			t.Fatalf("Save(%s): %v", rec.ID, err)
		}
	}

	got, err := deps.sessions.Get(ctx, "live")
	if err != nil || got == nil {
		t.Fatalf("live session should resolve: %v %+v", err, got)
	}
	got, err = deps.sessions.Get(ctx, "stale")
	if err != nil {
		t.Fatalf("Get stale: %v", err)
	}
	if got != nil {
		t.Fatalf("expired session must not resolve")
	}

	n, err := deps.sessions.PurgeExpired(ctx, now)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged session, got %d", n)
	}

	if err := deps.sessions.Delete(ctx, "live"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ = deps.sessions.Get(ctx, "live")
	if got != nil {
		t.Fatalf("deleted session must not resolve")
	}
}

func TestMigrationsSeedOSCatalog(t *testing.T) {
	cfg := &config.AppConfig{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "panel.db"),
	}
	logger := utils.NewLogger()
	db, err := NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	// Applying twice must not duplicate the seed rows.
	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(ctx, db, logger); err != nil {
			t.Fatalf("ApplyMigrations #%d: %v", i+1, err)
		}
	}

	oses, err := NewOSStore(db).List(ctx)
	if err != nil {
		t.Fatalf("os List: %v", err)
	}
	if len(oses) != 5 {
		t.Fatalf("expected 5 seeded OS rows, got %d", len(oses))
	}
	found := false
	for _, os := range oses {
		if os.Name == "Debian GNU/Linux" {
			found = true
		}
	}
	if !found {
		t.Fatalf("seed rows missing expected entries: %+v", oses)
	}
}

func TestBoxesStoreCRUD(t *testing.T) {
	deps := openTestDB(t)
	ctx := context.Background()

	oses, err := deps.os.List(ctx)
	if err != nil {
		t.Fatalf("os List: %v", err)
	}
	if len(oses) == 0 {
		t.Fatalf("seeded OS catalog expected")
	}

	id, err := deps.boxes.Create(ctx, &Box{
		Name: "game-01", OSID: oses[0].ID, Addr: "192.168.1.10", Login: "bgpanel",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := deps.boxes.Get(ctx, id)
	if err != nil || b == nil {
		t.Fatalf("Get: %v %+v", err, b)
	}
	if b.SSHPort != 22 {
		t.Fatalf("ssh port should default to 22, got %d", b.SSHPort)
	}

	b.Addr = "192.168.1.11"
	if err := deps.boxes.Update(ctx, b); err != nil {
		t.Fatalf("Update: %v", err)
	}
	b2, _ := deps.boxes.Get(ctx, id)
	if b2.Addr != "192.168.1.11" {
		t.Fatalf("update not applied: %+v", b2)
	}

	if err := deps.boxes.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, _ := deps.boxes.Get(ctx, id)
	if gone != nil {
		t.Fatalf("deleted box must not resolve")
	}
}

func TestAuditStoreRetention(t *testing.T) {
	deps := openTestDB(t)
	ctx := context.Background()

	if err := deps.audit.Log(ctx, "peter", "login", "ip=10.0.0.1"); err != nil {
		t.Fatalf("Log: %v", err)
	}
	entries, err := deps.audit.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "login" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	n, err := deps.audit.DeleteOlderThan(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if n != 0 {
		t.Fatalf("fresh entry must survive retention cutoff")
	}
	n, err = deps.audit.DeleteOlderThan(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pruned entry, got %d", n)
	}
}
