package account

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, 100, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	s.Mutate("p1", func(a *Account) {
		a.Name = "steve"
		a.AddXp(150)
		a.AddItem("wheat", 4)
	})
	s.Evict("p1")
	if s.Cached("p1") {
		t.Fatal("evicted account still cached")
	}

	a := s.Get("p1")
	if a.Name != "steve" {
		t.Fatalf("got name %q, want steve", a.Name)
	}
	if a.Level != 2 || a.Xp != 50 {
		t.Fatalf("got level %d xp %d, want level 2 xp 50", a.Level, a.Xp)
	}
	if a.Inventory["wheat"] != 4 {
		t.Fatalf("got %d wheat, want 4", a.Inventory["wheat"])
	}
}

func TestStore_FreshAccountDefaults(t *testing.T) {
	s, err := NewStore(t.TempDir(), 250, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	a := s.Get("new")
	if a.Money != 250 || a.Level != 1 || a.Xp != 0 {
		t.Fatalf("unexpected defaults: money %d level %d xp %d", a.Money, a.Level, a.Xp)
	}
}

func TestStore_CorruptFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, 100, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "p1.json.zst"), []byte("not zstd at all"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	a := s.Get("p1")
	if a.Money != 100 || a.Level != 1 {
		t.Fatalf("corrupt read did not fall back: money %d level %d", a.Money, a.Level)
	}
}

func TestStore_FlushHookObservesMutations(t *testing.T) {
	s, err := NewStore(t.TempDir(), 100, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	var gotID string
	var gotMoney int64
	s.SetFlushHook(func(id string, a *Account) {
		gotID = id
		gotMoney = a.Money
	})

	s.Mutate("p9", func(a *Account) { a.AddMoney(23) })

	if gotID != "p9" || gotMoney != 123 {
		t.Fatalf("hook saw %q/%d, want p9/123", gotID, gotMoney)
	}
}

func TestStore_PathSanitizesSeparators(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, 100, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s.Mutate("../evil/name", func(a *Account) {})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single file inside the store dir, got %d entries", len(entries))
	}
}

func TestNormalize_RepairsInvariants(t *testing.T) {
	a := &Account{Money: -5, Level: 0, Xp: -1, SkillPoints: -2}
	a.Skills[2] = 99
	a.normalize()

	if a.Money != 0 || a.Level != 1 || a.Xp != 0 || a.SkillPoints != 0 {
		t.Fatalf("not repaired: %+v", a)
	}
	if a.Skills[2] != MaxSkillLevel {
		t.Fatalf("skill not clamped: %d", a.Skills[2])
	}
	if a.Inventory == nil {
		t.Fatal("inventory not initialized")
	}
}
