package rewards

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// BlockReward is the base reward for breaking one block.
type BlockReward struct {
	ID       string `json:"id"`
	Xp       int    `json:"xp"`
	Money    int64  `json:"money"`
	Category string `json:"category,omitempty"`
	Growable bool   `json:"growable,omitempty"`
	Drops    string `json:"drops,omitempty"`
}

// TagReward is an ordered fallback for blocks that are not tabled by id but
// carry a known category tag (e.g. every LOG is worth 2 xp).
type TagReward struct {
	Category string `json:"category"`
	Xp       int    `json:"xp"`
	Money    int64  `json:"money"`
}

// CreatureReward drives combat rewards. Hostile is a tri-state: absent means
// untyped (multiplier 1.0). Money, when set, overrides the health-derived
// default.
type CreatureReward struct {
	ID        string `json:"id"`
	MaxHealth int    `json:"max_health"`
	Hostile   *bool  `json:"hostile,omitempty"`
	Money     *int64 `json:"money,omitempty"`
}

// SmeltReward is the per-item reward for collecting a smelting result.
type SmeltReward struct {
	ID    string `json:"id"`
	Xp    int    `json:"xp"`
	Money int64  `json:"money"`
}

type Tables struct {
	Blocks    map[string]BlockReward
	Tags      []TagReward
	Creatures map[string]CreatureReward
	Smelts    map[string]SmeltReward
	Digest    string
}

type rawTables struct {
	Blocks    []BlockReward    `json:"blocks"`
	Tags      []TagReward      `json:"tags"`
	Creatures []CreatureReward `json:"creatures"`
	Smelts    []SmeltReward    `json:"smelts"`
}

// Load reads the reward tables. Entries with an empty id are skipped with a
// warning rather than failing the load.
func Load(path string, logger *log.Logger) (*Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rt rawTables
	if err := json.Unmarshal(raw, &rt); err != nil {
		return nil, fmt.Errorf("rewards.json: %w", err)
	}

	sum := sha256.Sum256(raw)
	t := &Tables{
		Blocks:    make(map[string]BlockReward, len(rt.Blocks)),
		Tags:      rt.Tags,
		Creatures: make(map[string]CreatureReward, len(rt.Creatures)),
		Smelts:    make(map[string]SmeltReward, len(rt.Smelts)),
		Digest:    hex.EncodeToString(sum[:]),
	}
	for _, b := range rt.Blocks {
		if b.ID == "" {
			if logger != nil {
				logger.Printf("rewards.json: skipping block entry with empty id")
			}
			continue
		}
		t.Blocks[b.ID] = b
	}
	for _, cr := range rt.Creatures {
		if cr.ID == "" {
			if logger != nil {
				logger.Printf("rewards.json: skipping creature entry with empty id")
			}
			continue
		}
		t.Creatures[cr.ID] = cr
	}
	for _, s := range rt.Smelts {
		if s.ID == "" {
			if logger != nil {
				logger.Printf("rewards.json: skipping smelt entry with empty id")
			}
			continue
		}
		t.Smelts[s.ID] = s
	}
	return t, nil
}

// BlockLookup resolves base (xp, money) for a broken block. The id table wins;
// otherwise the first tag fallback matching the event's category applies.
// Growable blocks reward nothing below max growth and double at max growth.
func (t *Tables) BlockLookup(subject, category string, atMaxGrowth bool) (xp int, money int64, def BlockReward, ok bool) {
	if b, found := t.Blocks[subject]; found {
		if b.Growable {
			if !atMaxGrowth {
				return 0, 0, b, true
			}
			return b.Xp * 2, b.Money * 2, b, true
		}
		return b.Xp, b.Money, b, true
	}
	for _, tag := range t.Tags {
		if tag.Category == category {
			return tag.Xp, tag.Money, BlockReward{ID: subject, Category: category}, true
		}
	}
	return 0, 0, BlockReward{}, false
}

// Combat reward formula: xp = clamp(round(maxHealth/2 * mult), 3, 200) with
// mult 1.5 hostile / 0.75 passive / 1.0 untyped; money is the configured flat
// value, else max(1, maxHealth/4).
func (t *Tables) CombatLookup(subject string) (xp int, money int64, hostile bool) {
	cr := t.Creatures[subject]

	mult := 1.0
	if cr.Hostile != nil {
		if *cr.Hostile {
			mult = 1.5
			hostile = true
		} else {
			mult = 0.75
		}
	}
	base := float64(cr.MaxHealth) / 2 * mult
	xp = int(base + 0.5)
	if xp < 3 {
		xp = 3
	}
	if xp > 200 {
		xp = 200
	}

	if cr.Money != nil {
		money = *cr.Money
	} else {
		money = int64(cr.MaxHealth / 4)
		if money < 1 {
			money = 1
		}
	}
	return xp, money, hostile
}

// SmeltLookup resolves the per-item smelting reward, (0,0) when untracked.
func (t *Tables) SmeltLookup(subject string) (xp int, money int64, ok bool) {
	s, found := t.Smelts[subject]
	if !found {
		return 0, 0, false
	}
	return s.Xp, s.Money, true
}
