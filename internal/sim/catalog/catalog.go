package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

// Entry is one tradable item. Buy -1 means not buyable, Sell 0 means not
// sellable, BlackMarketCost > 0 marks a restricted item priced in skill
// points and excluded from normal trade and market rotation.
type Entry struct {
	Buy             int64  `json:"buy"`
	Sell            int64  `json:"sell"`
	BlackMarketCost int    `json:"black_market_cost"`
	Name            string `json:"name,omitempty"`
}

func (e Entry) Buyable() bool     { return e.Buy > 0 }
func (e Entry) Sellable() bool    { return e.Sell > 0 }
func (e Entry) BlackMarket() bool { return e.BlackMarketCost > 0 }

type Catalog struct {
	Entries map[string]Entry
	Digest  string

	ids []string // sorted, for deterministic iteration
}

// Load reads the shop catalog. Malformed entries are skipped with a warning;
// only a missing or unreadable file is an error.
func Load(path string, logger *log.Logger) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rawEntries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rawEntries); err != nil {
		return nil, fmt.Errorf("shop.json: %w", err)
	}

	c := &Catalog{
		Entries: make(map[string]Entry, len(rawEntries)),
		Digest:  sha256Hex(raw),
	}
	for id, body := range rawEntries {
		if strings.TrimSpace(id) == "" {
			if logger != nil {
				logger.Printf("shop.json: skipping entry with empty id")
			}
			continue
		}
		e := Entry{Buy: -1} // absent buy price means not buyable
		if err := json.Unmarshal(body, &e); err != nil {
			if logger != nil {
				logger.Printf("shop.json: skipping %s: %v", id, err)
			}
			continue
		}
		c.Entries[id] = e
	}

	c.ids = make([]string, 0, len(c.Entries))
	for id := range c.Entries {
		c.ids = append(c.ids, id)
	}
	sort.Strings(c.ids)
	return c, nil
}

// IDs returns all item ids in sorted order.
func (c *Catalog) IDs() []string { return c.ids }

func (c *Catalog) Has(item string) bool {
	_, ok := c.Entries[item]
	return ok
}

// BuyPrice returns the base buy price, or -1 for unknown/not-buyable items.
func (c *Catalog) BuyPrice(item string) int64 {
	if e, ok := c.Entries[item]; ok {
		return e.Buy
	}
	return -1
}

// SellPrice returns the base sell price, or 0 for unknown/not-sellable items.
func (c *Catalog) SellPrice(item string) int64 {
	if e, ok := c.Entries[item]; ok {
		return e.Sell
	}
	return 0
}

// BlackMarketCost returns the skill-point cost, or 0 for unrestricted items.
func (c *Catalog) BlackMarketCost(item string) int {
	if e, ok := c.Entries[item]; ok {
		return e.BlackMarketCost
	}
	return 0
}

// DisplayName returns the configured name, falling back to a title-cased id.
func (c *Catalog) DisplayName(item string) string {
	if e, ok := c.Entries[item]; ok && e.Name != "" {
		return e.Name
	}
	parts := strings.Split(strings.ToLower(item), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
