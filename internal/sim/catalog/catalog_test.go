package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "shop.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeCatalog(t, `{
		"wheat": {"buy": 8, "sell": 4, "name": "Wheat"},
		"raw_iron": {"sell": 8},
		"junk": {},
		"totem": {"black_market_cost": 8}
	}`)
	c, err := Load(p, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := c.BuyPrice("wheat"); got != 8 {
		t.Fatalf("wheat buy: got %d, want 8", got)
	}
	// Absent buy price means not buyable.
	if got := c.BuyPrice("raw_iron"); got != -1 {
		t.Fatalf("raw_iron buy: got %d, want -1", got)
	}
	// Absent sell price means not sellable.
	if got := c.SellPrice("junk"); got != 0 {
		t.Fatalf("junk sell: got %d, want 0", got)
	}
	if got := c.BuyPrice("nothere"); got != -1 {
		t.Fatalf("unknown buy: got %d, want -1", got)
	}
	if got := c.SellPrice("nothere"); got != 0 {
		t.Fatalf("unknown sell: got %d, want 0", got)
	}
	if !c.Entries["totem"].BlackMarket() {
		t.Fatal("totem not flagged black market")
	}
	if c.Entries["wheat"].BlackMarket() {
		t.Fatal("wheat flagged black market")
	}
}

func TestLoad_SkipsMalformedEntries(t *testing.T) {
	p := writeCatalog(t, `{
		"good": {"buy": 5, "sell": 2},
		"bad": "not an object",
		" ": {"buy": 1}
	}`)
	c, err := Load(p, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.Has("good") {
		t.Fatal("good entry missing")
	}
	if c.Has("bad") || c.Has(" ") {
		t.Fatal("malformed entries survived the load")
	}
	if len(c.IDs()) != 1 {
		t.Fatalf("got %d ids, want 1", len(c.IDs()))
	}
}

func TestLoad_UnreadableFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json"), nil); err == nil {
		t.Fatal("missing file did not error")
	}
}

func TestDisplayName(t *testing.T) {
	p := writeCatalog(t, `{
		"wheat": {"name": "Wheat"},
		"iron_ingot": {}
	}`)
	c, err := Load(p, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.DisplayName("wheat"); got != "Wheat" {
		t.Fatalf("got %q, want Wheat", got)
	}
	if got := c.DisplayName("iron_ingot"); got != "Iron Ingot" {
		t.Fatalf("got %q, want Iron Ingot", got)
	}
	if got := c.DisplayName("golden_carrot"); got != "Golden Carrot" {
		t.Fatalf("unknown item fallback: got %q", got)
	}
}

func TestDigest_StableAcrossLoads(t *testing.T) {
	body := `{"wheat": {"buy": 8, "sell": 4}}`
	p1 := writeCatalog(t, body)
	p2 := writeCatalog(t, body)

	c1, err := Load(p1, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c2, err := Load(p2, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c1.Digest == "" || c1.Digest != c2.Digest {
		t.Fatalf("digests differ: %q vs %q", c1.Digest, c2.Digest)
	}
}
