package account

import "math/rand"

// Skill indexes the six progression tracks. The wire order matches this enum.
type Skill int

const (
	Farming Skill = iota
	Combat
	Defense
	Smithing
	Woodcutting
	Mining

	SkillCount = 6
)

const MaxSkillLevel = 10

var skillNames = [SkillCount]string{"Farming", "Combat", "Defense", "Smithing", "Woodcutting", "Mining"}

func (s Skill) String() string {
	if s < 0 || s >= SkillCount {
		return "Unknown"
	}
	return skillNames[s]
}

// ValidSkill reports whether the wire index maps to a skill.
func ValidSkill(index int) bool { return index >= 0 && index < SkillCount }

// SkillLevel returns the current level of a skill (0 for invalid skills).
func (a *Account) SkillLevel(s Skill) int {
	if s < 0 || s >= SkillCount {
		return 0
	}
	return a.Skills[s]
}

// Upgrade spends one skill point on the given skill. It fails without
// mutation when no points are available or the skill is already maxed.
func (a *Account) Upgrade(s Skill) bool {
	if s < 0 || s >= SkillCount {
		return false
	}
	if a.SkillPoints <= 0 || a.Skills[s] >= MaxSkillLevel {
		return false
	}
	a.SkillPoints--
	a.Skills[s]++
	return true
}

// BonusPercent is the reward-doubling chance for a skill: 5% per level.
func (a *Account) BonusPercent(s Skill) int {
	return a.SkillLevel(s) * 5
}

// RollBonus draws once against the skill's bonus chance. Draws must be
// independent across calls; the engine owns the rand source.
func (a *Account) RollBonus(s Skill, rng *rand.Rand) bool {
	pct := a.BonusPercent(s)
	if pct <= 0 {
		return false
	}
	return rng.Float64()*100 < float64(pct)
}
