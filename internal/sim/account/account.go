package account

// Account is the durable per-participant record. All mutation happens on the
// engine goroutine; the Store serializes flushes per participant.
type Account struct {
	Name          string         `json:"name,omitempty"`
	Money         int64          `json:"money"`
	Level         int            `json:"level"`
	Xp            int            `json:"xp"`
	SkillPoints   int            `json:"skill_points"`
	Skills        [SkillCount]int `json:"skills"`
	DailyEarnings int64          `json:"daily_earnings"`
	LastLogin     int64          `json:"last_login"` // unix ms, 0 = never
	Inventory     map[string]int `json:"inventory,omitempty"`
}

const defaultStartingMoney = 100

// New returns a fresh account with starting values.
func New(startingMoney int64) *Account {
	if startingMoney < 0 {
		startingMoney = defaultStartingMoney
	}
	return &Account{
		Money:     startingMoney,
		Level:     1,
		Xp:        0,
		Inventory: map[string]int{},
	}
}

// normalize repairs a loaded record so invariants hold regardless of what was
// on disk.
func (a *Account) normalize() {
	if a.Level < 1 {
		a.Level = 1
	}
	if a.Xp < 0 {
		a.Xp = 0
	}
	if a.Money < 0 {
		a.Money = 0
	}
	if a.SkillPoints < 0 {
		a.SkillPoints = 0
	}
	for i := range a.Skills {
		if a.Skills[i] < 0 {
			a.Skills[i] = 0
		}
		if a.Skills[i] > MaxSkillLevel {
			a.Skills[i] = MaxSkillLevel
		}
	}
	if a.Inventory == nil {
		a.Inventory = map[string]int{}
	}
}

// AddMoney credits (or debits, for negative amounts) the balance, clamping at
// zero. Money never goes negative.
func (a *Account) AddMoney(amount int64) {
	a.Money += amount
	if a.Money < 0 {
		a.Money = 0
	}
}

// RemoveMoney debits the balance only when it is covered in full.
func (a *Account) RemoveMoney(amount int64) bool {
	if amount < 0 || a.Money < amount {
		return false
	}
	a.Money -= amount
	return true
}

// AddItem credits the participant inventory.
func (a *Account) AddItem(item string, count int) {
	if item == "" || count <= 0 {
		return
	}
	if a.Inventory == nil {
		a.Inventory = map[string]int{}
	}
	a.Inventory[item] += count
}

// RemoveItem debits the inventory only when the count is covered in full.
func (a *Account) RemoveItem(item string, count int) bool {
	if count <= 0 || a.Inventory[item] < count {
		return false
	}
	a.Inventory[item] -= count
	if a.Inventory[item] == 0 {
		delete(a.Inventory, item)
	}
	return true
}
