package market

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"frontier.rpg/internal/sim/catalog"
)

func loadCatalog(t *testing.T, body string) *catalog.Catalog {
	t.Helper()
	p := filepath.Join(t.TempDir(), "shop.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := catalog.Load(p, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

const tradeCatalog = `{
	"wheat": {"buy": 8, "sell": 4},
	"coal": {"buy": 10, "sell": 4},
	"iron_ingot": {"buy": 40, "sell": 16},
	"diamond": {"buy": 400, "sell": 150},
	"raw_iron": {"sell": 8},
	"totem": {"black_market_cost": 8, "buy": 999, "sell": 999}
}`

func TestRotate_PicksDistinctSlots(t *testing.T) {
	cat := loadCatalog(t, tradeCatalog)
	m := New()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		m.Rotate(cat, rng)
		if m.HotItem == "" {
			t.Fatal("hot slot unset with a non-empty sellable pool")
		}
		if m.CheapItem != "" && m.CheapItem == m.HotItem {
			t.Fatalf("rotation %d: hot and cheap collide on %s", i, m.HotItem)
		}
		if m.HotItem == "totem" || m.CheapItem == "totem" {
			t.Fatal("black market item entered the rotation")
		}
		if m.CheapItem == "raw_iron" {
			t.Fatal("non-buyable item landed in the cheap slot")
		}
	}
}

func TestMaybeRotate_IdempotentPerDay(t *testing.T) {
	cat := loadCatalog(t, tradeCatalog)
	m := New()
	rng := rand.New(rand.NewSource(1))

	if !m.MaybeRotate(0, cat, rng) {
		t.Fatal("first rotation did not fire")
	}
	hot, cheap := m.HotItem, m.CheapItem

	for i := 0; i < 50; i++ {
		if m.MaybeRotate(0, cat, rng) {
			t.Fatal("same-day rotation fired twice")
		}
	}
	if m.HotItem != hot || m.CheapItem != cheap {
		t.Fatal("same-day trigger mutated the slots")
	}

	if !m.MaybeRotate(1, cat, rng) {
		t.Fatal("next-day rotation did not fire")
	}
}

func TestRotate_EmptyPoolsLeaveSlotsUnset(t *testing.T) {
	cat := loadCatalog(t, `{"totem": {"black_market_cost": 8}}`)
	m := New()
	rng := rand.New(rand.NewSource(3))

	m.Rotate(cat, rng)
	if m.HotItem != "" || m.CheapItem != "" {
		t.Fatalf("slots set from empty pools: hot %q cheap %q", m.HotItem, m.CheapItem)
	}
}

func TestRotate_SingleItemPool(t *testing.T) {
	cat := loadCatalog(t, `{"wheat": {"buy": 8, "sell": 4}}`)
	m := New()
	rng := rand.New(rand.NewSource(3))

	m.Rotate(cat, rng)
	if m.HotItem != "wheat" {
		t.Fatalf("got hot %q, want wheat", m.HotItem)
	}
	// The sole buyable equals the hot item and the pool has no alternative,
	// so the single-element pool keeps it.
	if m.CheapItem != "wheat" {
		t.Fatalf("got cheap %q, want wheat", m.CheapItem)
	}
}

func TestEffectiveSell(t *testing.T) {
	cat := loadCatalog(t, tradeCatalog)
	m := New()

	if got := m.EffectiveSell(cat, "wheat"); got != 4 {
		t.Fatalf("base sell: got %d, want 4", got)
	}
	m.HotItem = "wheat"
	if got := m.EffectiveSell(cat, "wheat"); got != 8 {
		t.Fatalf("hot sell: got %d, want 8", got)
	}
	if got := m.EffectiveSell(cat, "coal"); got != 4 {
		t.Fatalf("non-hot sell: got %d, want 4", got)
	}
	if got := m.EffectiveSell(cat, "unknown"); got != 0 {
		t.Fatalf("unknown sell: got %d, want 0", got)
	}
}

func TestEffectiveBuy(t *testing.T) {
	cat := loadCatalog(t, tradeCatalog)
	m := New()

	if got := m.EffectiveBuy(cat, "coal"); got != 10 {
		t.Fatalf("base buy: got %d, want 10", got)
	}
	m.CheapItem = "coal"
	if got := m.EffectiveBuy(cat, "coal"); got != 5 {
		t.Fatalf("cheap buy: got %d, want 5", got)
	}
	// Discount floors: 8 * 0.5 = 4 exactly, 400 * 0.5 = 200 when cheap.
	m.CheapItem = "diamond"
	if got := m.EffectiveBuy(cat, "diamond"); got != 200 {
		t.Fatalf("cheap diamond: got %d, want 200", got)
	}
	if got := m.EffectiveBuy(cat, "raw_iron"); got != -1 {
		t.Fatalf("non-buyable: got %d, want -1", got)
	}
	if got := m.EffectiveBuy(cat, "unknown"); got != -1 {
		t.Fatalf("unknown buy: got %d, want -1", got)
	}
}
