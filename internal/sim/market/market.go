package market

import (
	"math/rand"

	"frontier.rpg/internal/sim/catalog"
)

// Rotation multipliers, fixed.
const (
	HotSellMultiplier  = 2.0
	CheapBuyMultiplier = 0.5
)

// Market is the process-wide rotation state. Mutated only by the engine loop
// at day boundaries; read by reward computation and the sync push.
type Market struct {
	HotItem   string // 2x sell price, "" = unset
	CheapItem string // 50% buy price, "" = unset

	LastRotationDay int64 // -1 = never rotated
}

func New() *Market {
	return &Market{LastRotationDay: -1}
}

// MaybeRotate rotates once when the day index advances. Duplicate triggers on
// the same day are no-ops, so it is safe to call every tick.
func (m *Market) MaybeRotate(day int64, cat *catalog.Catalog, rng *rand.Rand) bool {
	if day == m.LastRotationDay {
		return false
	}
	m.LastRotationDay = day
	m.Rotate(cat, rng)
	return true
}

// Rotate picks a new hot item from the sellable pool and a new cheap item
// from the buyable pool, both excluding black-market entries. An empty pool
// leaves the slot unchanged (hot) or unset (cheap); that is not an error.
//
// The cheap pick rejects candidates equal to the new hot item or the previous
// cheap item by shrinking the pool destructively. In pathological small pools
// this can exhaust the pool and leave the cheap slot unset even though a
// valid candidate existed earlier in the sequence. Hot and cheap are distinct
// whenever both pools hold at least two candidates; a single-item catalog may
// land the same item in both slots.
func (m *Market) Rotate(cat *catalog.Catalog, rng *rand.Rand) {
	var sellable, buyable []string
	for _, id := range cat.IDs() {
		e := cat.Entries[id]
		if e.BlackMarket() {
			continue
		}
		if e.Sellable() {
			sellable = append(sellable, id)
		}
		if e.Buyable() {
			buyable = append(buyable, id)
		}
	}

	if len(sellable) > 0 {
		pick := sellable[rng.Intn(len(sellable))]
		if len(sellable) > 1 && pick == m.HotItem {
			pool := remove(sellable, pick)
			pick = pool[rng.Intn(len(pool))]
		}
		m.HotItem = pick
	}

	if len(buyable) > 0 {
		pool := buyable
		pick := pool[rng.Intn(len(pool))]
		if len(buyable) > 1 {
			for pick == m.CheapItem || pick == m.HotItem {
				pool = remove(pool, pick)
				if len(pool) == 0 {
					pick = ""
					break
				}
				pick = pool[rng.Intn(len(pool))]
			}
		}
		m.CheapItem = pick
	}
}

// EffectiveSell returns the sell price with the hot-item bonus applied,
// rounded down. 0 means not sellable.
func (m *Market) EffectiveSell(cat *catalog.Catalog, item string) int64 {
	base := cat.SellPrice(item)
	if base <= 0 {
		return 0
	}
	if item == m.HotItem && m.HotItem != "" {
		return int64(float64(base) * HotSellMultiplier)
	}
	return base
}

// EffectiveBuy returns the buy price with the cheap-item discount applied,
// rounded down. -1 means not buyable.
func (m *Market) EffectiveBuy(cat *catalog.Catalog, item string) int64 {
	base := cat.BuyPrice(item)
	if base <= 0 {
		return -1
	}
	if item == m.CheapItem && m.CheapItem != "" {
		return int64(float64(base) * CheapBuyMultiplier)
	}
	return base
}

func remove(in []string, drop string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == drop {
			continue
		}
		out = append(out, s)
	}
	return out
}
