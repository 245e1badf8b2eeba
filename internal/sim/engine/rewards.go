package engine

import (
	"math"
	"time"

	"frontier.rpg/internal/protocol"
	"frontier.rpg/internal/sim/account"
)

// Block categories that map to a bonus skill.
const (
	categoryOre  = "ORE"
	categoryCrop = "CROP"
	categoryLog  = "LOG"
)

func (e *Engine) applyEvent(sess *session, ev protocol.EventMsg) {
	switch ev.Kind {
	case protocol.KindMining, protocol.KindHarvesting:
		e.applyBlockBreak(sess, ev)
	case protocol.KindCombat:
		e.applyCombat(sess, ev)
	case protocol.KindSmelting:
		e.applySmelting(sess, ev)
	case protocol.KindMovement:
		e.applyMovement(sess, ev)
	}
}

func (e *Engine) applyBlockBreak(sess *session, ev protocol.EventMsg) {
	xp, money, def, ok := e.tables.BlockLookup(ev.Subject, ev.Category, ev.AtMaxGrowth)
	if !ok {
		return
	}

	bonus := false
	skill, hasSkill := skillForCategory(def.Category)
	if hasSkill && xp > 0 {
		acct := e.store.Get(sess.ID)
		if acct.RollBonus(skill, e.rng) {
			xp *= 2
			money *= 2
			bonus = true
		}
	}

	if xp <= 0 && money <= 0 {
		return
	}

	vanillaXp := 0
	if xp > 0 {
		vanillaXp = max(1, xp/5)
	}

	var ups []account.LevelUp
	e.store.Mutate(sess.ID, func(a *account.Account) {
		ups = a.AddXp(xp)
		a.AddMoney(money)
		if def.Drops != "" {
			a.AddItem(def.Drops, 1)
		}
	})

	// Rewards below 3 xp are not surfaced; they would drown the display.
	if xp >= 3 {
		e.sendReward(sess, protocol.RewardMsg{
			Type:            protocol.TypeReward,
			ProtocolVersion: protocol.Version,
			Kind:            protocol.RewardGeneral,
			Xp:              xp,
			Money:           money,
			VanillaXp:       vanillaXp,
			Bonus:           bonus,
			BonusSkill:      bonusSkillName(bonus, skill),
		})
	}
	e.sendLevelUps(sess, ups)
}

func (e *Engine) applyCombat(sess *session, ev protocol.EventMsg) {
	xp, money, hostile := e.tables.CombatLookup(ev.Subject)

	bonus := false
	acct := e.store.Get(sess.ID)
	if acct.RollBonus(account.Combat, e.rng) {
		xp *= 2
		money *= 2
		bonus = true
	}

	var ups []account.LevelUp
	e.store.Mutate(sess.ID, func(a *account.Account) {
		ups = a.AddXp(xp)
		a.AddMoney(money)
	})

	kind := protocol.RewardCombatPassive
	if hostile {
		kind = protocol.RewardCombatHostile
	}
	e.sendReward(sess, protocol.RewardMsg{
		Type:            protocol.TypeReward,
		ProtocolVersion: protocol.Version,
		Kind:            kind,
		Xp:              xp,
		Money:           money,
		VanillaXp:       max(1, xp/3),
		Bonus:           bonus,
		BonusSkill:      bonusSkillName(bonus, account.Combat),
	})
	e.sendLevelUps(sess, ups)
}

func (e *Engine) applySmelting(sess *session, ev protocol.EventMsg) {
	perXp, perMoney, ok := e.tables.SmeltLookup(ev.Subject)
	if !ok {
		return
	}
	qty := ev.Quantity
	if qty <= 0 {
		qty = 1
	}
	xp := perXp * qty
	money := perMoney * int64(qty)

	bonus := false
	acct := e.store.Get(sess.ID)
	if acct.RollBonus(account.Smithing, e.rng) {
		xp *= 2
		money *= 2
		bonus = true
	}

	if xp <= 0 && money <= 0 {
		return
	}

	var ups []account.LevelUp
	e.store.Mutate(sess.ID, func(a *account.Account) {
		ups = a.AddXp(xp)
		a.AddMoney(money)
	})

	e.sendReward(sess, protocol.RewardMsg{
		Type:            protocol.TypeReward,
		ProtocolVersion: protocol.Version,
		Kind:            protocol.RewardSmelting,
		Xp:              xp,
		Money:           money,
		VanillaXp:       xp,
		Bonus:           bonus,
		BonusSkill:      bonusSkillName(bonus, account.Smithing),
	})
	e.sendLevelUps(sess, ups)
}

// applyMovement accumulates horizontal displacement and grants a small reward
// each time the distance threshold is crossed, rate limited in real time.
// Movement rewards are silent; only resulting level-ups are surfaced.
func (e *Engine) applyMovement(sess *session, ev protocol.EventMsg) {
	if !sess.hasPos {
		sess.hasPos = true
		sess.lastX, sess.lastZ = ev.X, ev.Z
		return
	}
	dx := ev.X - sess.lastX
	dz := ev.Z - sess.lastZ
	sess.lastX, sess.lastZ = ev.X, ev.Z

	dist := math.Hypot(dx, dz)
	if dist < e.cfg.Movement.MinStep {
		return
	}
	sess.distance += dist
	if sess.distance < e.cfg.Movement.DistancePerReward {
		return
	}
	// Keep the overflow; the accumulator is never zeroed on a grant.
	sess.distance -= e.cfg.Movement.DistancePerReward

	now := e.now()
	cooldown := time.Duration(e.cfg.Movement.CooldownSeconds) * time.Second
	if now.Sub(sess.lastMoveReward) < cooldown {
		return
	}
	sess.lastMoveReward = now

	xp := e.cfg.Movement.WalkXp
	money := e.cfg.Movement.WalkMoney
	if ev.Sprinting {
		xp = e.cfg.Movement.SprintXp
		money = e.cfg.Movement.SprintMoney
	}

	var ups []account.LevelUp
	e.store.Mutate(sess.ID, func(a *account.Account) {
		ups = a.AddXp(xp)
		a.AddMoney(money)
	})
	e.sendLevelUps(sess, ups)
}

func skillForCategory(category string) (account.Skill, bool) {
	switch category {
	case categoryOre:
		return account.Mining, true
	case categoryCrop:
		return account.Farming, true
	case categoryLog:
		return account.Woodcutting, true
	}
	return 0, false
}

func bonusSkillName(bonus bool, s account.Skill) string {
	if !bonus {
		return ""
	}
	return s.String()
}
