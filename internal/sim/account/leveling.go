package account

// Money granted per crossed level on level-up.
const levelUpMoneyPerLevel = 50

// XpRequired is the XP needed to clear the given level.
func XpRequired(level int) int {
	if level < 1 {
		level = 1
	}
	return level * 100
}

// LevelUp describes one crossed level boundary.
type LevelUp struct {
	Level int   // the level reached
	Money int64 // level-up money bonus (Level * 50)
}

// AddXp adds XP and cascades level-ups until xp < XpRequired(level) holds
// again. Each crossed level grants money and one skill point. A single large
// grant may cross several levels. Non-positive amounts are a no-op.
func (a *Account) AddXp(amount int) []LevelUp {
	if amount <= 0 {
		return nil
	}
	newXp := a.Xp + amount
	var ups []LevelUp
	for newXp >= XpRequired(a.Level) {
		newXp -= XpRequired(a.Level)
		a.Level++
		bonus := int64(a.Level) * levelUpMoneyPerLevel
		a.AddMoney(bonus)
		a.SkillPoints++
		ups = append(ups, LevelUp{Level: a.Level, Money: bonus})
	}
	a.Xp = newXp
	return ups
}
