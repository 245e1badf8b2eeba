package engine

import (
	"fmt"
	"sort"
	"strconv"

	"frontier.rpg/internal/protocol"
	"frontier.rpg/internal/sim/account"
)

func (e *Engine) handleCmd(sess *session, cmd protocol.CmdMsg) {
	switch cmd.Cmd {
	case protocol.CmdBuy:
		e.cmdBuy(sess, cmd)
	case protocol.CmdSell:
		e.cmdSell(sess, cmd)
	case protocol.CmdSellAll:
		e.cmdSellAll(sess, cmd)
	case protocol.CmdBlackMarket:
		e.cmdBlackMarket(sess, cmd)
	case protocol.CmdBalance:
		acct := e.store.Get(sess.ID)
		e.accept(sess, cmd, fmt.Sprintf("balance: %d", acct.Money), map[string]string{
			"money": strconv.FormatInt(acct.Money, 10),
		})
	case protocol.CmdStats:
		e.cmdStats(sess, cmd)
	case protocol.CmdMarket:
		e.cmdMarket(sess, cmd)
	case protocol.CmdDaily:
		acct := e.store.Get(sess.ID)
		e.accept(sess, cmd, fmt.Sprintf("earned today: %d", acct.DailyEarnings), map[string]string{
			"daily_earnings": strconv.FormatInt(acct.DailyEarnings, 10),
		})
	case protocol.CmdAdmin:
		e.cmdAdmin(sess, cmd)
	default:
		e.reject(sess, cmd, protocol.ErrBadRequest, "unknown command")
	}
}

func (e *Engine) cmdBuy(sess *session, cmd protocol.CmdMsg) {
	if !e.cat.Has(cmd.Item) {
		e.reject(sess, cmd, protocol.ErrUnknownItem, "no such item")
		return
	}
	entry := e.cat.Entries[cmd.Item]
	if entry.BlackMarket() || !entry.Buyable() {
		e.reject(sess, cmd, protocol.ErrNotBuyable, "item is not for sale")
		return
	}
	qty := cmd.Quantity
	if qty <= 0 {
		qty = 1
	}
	price := e.market.EffectiveBuy(e.cat, cmd.Item)
	cost := price * int64(qty)

	ok := false
	acct := e.store.Mutate(sess.ID, func(a *account.Account) {
		if ok = a.RemoveMoney(cost); ok {
			a.AddItem(cmd.Item, qty)
		}
	})
	if !ok {
		e.reject(sess, cmd, protocol.ErrNoFunds, fmt.Sprintf("need %d, have %d", cost, acct.Money))
		return
	}
	e.accept(sess, cmd, fmt.Sprintf("bought %d x %s for %d", qty, e.cat.DisplayName(cmd.Item), cost), map[string]string{
		"item":     cmd.Item,
		"quantity": strconv.Itoa(qty),
		"cost":     strconv.FormatInt(cost, 10),
		"money":    strconv.FormatInt(acct.Money, 10),
	})
	e.pushSync(sess, acct)
}

func (e *Engine) cmdSell(sess *session, cmd protocol.CmdMsg) {
	if !e.cat.Has(cmd.Item) {
		e.reject(sess, cmd, protocol.ErrUnknownItem, "no such item")
		return
	}
	entry := e.cat.Entries[cmd.Item]
	price := e.market.EffectiveSell(e.cat, cmd.Item)
	if entry.BlackMarket() || price <= 0 {
		e.reject(sess, cmd, protocol.ErrNotSellable, "item cannot be sold")
		return
	}

	acct := e.store.Get(sess.ID)
	held := acct.Inventory[cmd.Item]
	qty := cmd.Quantity
	if qty <= 0 || qty > held {
		qty = held
	}
	if qty == 0 {
		e.reject(sess, cmd, protocol.ErrNoItems, "nothing to sell")
		return
	}
	proceeds := price * int64(qty)

	acct = e.store.Mutate(sess.ID, func(a *account.Account) {
		a.RemoveItem(cmd.Item, qty)
		a.AddMoney(proceeds)
		a.DailyEarnings += proceeds
	})
	e.accept(sess, cmd, fmt.Sprintf("sold %d x %s for %d", qty, e.cat.DisplayName(cmd.Item), proceeds), map[string]string{
		"item":     cmd.Item,
		"quantity": strconv.Itoa(qty),
		"proceeds": strconv.FormatInt(proceeds, 10),
		"money":    strconv.FormatInt(acct.Money, 10),
	})
	e.pushSync(sess, acct)
}

func (e *Engine) cmdSellAll(sess *session, cmd protocol.CmdMsg) {
	acct := e.store.Get(sess.ID)

	items := make([]string, 0, len(acct.Inventory))
	for item := range acct.Inventory {
		items = append(items, item)
	}
	sort.Strings(items)

	var total int64
	sold := 0
	acct = e.store.Mutate(sess.ID, func(a *account.Account) {
		for _, item := range items {
			if e.cat.BlackMarketCost(item) > 0 {
				continue
			}
			price := e.market.EffectiveSell(e.cat, item)
			if price <= 0 {
				continue
			}
			count := a.Inventory[item]
			proceeds := price * int64(count)
			a.RemoveItem(item, count)
			a.AddMoney(proceeds)
			a.DailyEarnings += proceeds
			total += proceeds
			sold += count
		}
	})
	if sold == 0 {
		e.reject(sess, cmd, protocol.ErrNoItems, "nothing to sell")
		return
	}
	e.accept(sess, cmd, fmt.Sprintf("sold %d items for %d", sold, total), map[string]string{
		"quantity": strconv.Itoa(sold),
		"proceeds": strconv.FormatInt(total, 10),
		"money":    strconv.FormatInt(acct.Money, 10),
	})
	e.pushSync(sess, acct)
}

func (e *Engine) cmdBlackMarket(sess *session, cmd protocol.CmdMsg) {
	if !e.cat.Has(cmd.Item) {
		e.reject(sess, cmd, protocol.ErrUnknownItem, "no such item")
		return
	}
	cost := e.cat.BlackMarketCost(cmd.Item)
	if cost <= 0 {
		e.reject(sess, cmd, protocol.ErrNotBuyable, "not a black market item")
		return
	}

	ok := false
	acct := e.store.Mutate(sess.ID, func(a *account.Account) {
		if a.SkillPoints < cost {
			return
		}
		a.SkillPoints -= cost
		a.AddItem(cmd.Item, 1)
		ok = true
	})
	if !ok {
		e.reject(sess, cmd, protocol.ErrNoPoints, fmt.Sprintf("need %d skill points, have %d", cost, acct.SkillPoints))
		return
	}
	e.accept(sess, cmd, fmt.Sprintf("acquired %s for %d skill points", e.cat.DisplayName(cmd.Item), cost), map[string]string{
		"item":         cmd.Item,
		"cost":         strconv.Itoa(cost),
		"skill_points": strconv.Itoa(acct.SkillPoints),
	})
	e.pushSync(sess, acct)
}

func (e *Engine) cmdStats(sess *session, cmd protocol.CmdMsg) {
	acct := e.store.Get(sess.ID)
	data := map[string]string{
		"level":        strconv.Itoa(acct.Level),
		"xp":           strconv.Itoa(acct.Xp),
		"xp_required":  strconv.Itoa(account.XpRequired(acct.Level)),
		"money":        strconv.FormatInt(acct.Money, 10),
		"skill_points": strconv.Itoa(acct.SkillPoints),
	}
	for i := 0; i < account.SkillCount; i++ {
		s := account.Skill(i)
		data["skill_"+s.String()] = strconv.Itoa(acct.Skills[i])
	}
	e.accept(sess, cmd, fmt.Sprintf("level %d (%d/%d xp)", acct.Level, acct.Xp, account.XpRequired(acct.Level)), data)
}

func (e *Engine) cmdMarket(sess *session, cmd protocol.CmdMsg) {
	data := map[string]string{
		"hot_item":   e.market.HotItem,
		"cheap_item": e.market.CheapItem,
	}
	if e.market.HotItem != "" {
		data["hot_name"] = e.cat.DisplayName(e.market.HotItem)
		data["hot_sell"] = strconv.FormatInt(e.market.EffectiveSell(e.cat, e.market.HotItem), 10)
	}
	if e.market.CheapItem != "" {
		data["cheap_name"] = e.cat.DisplayName(e.market.CheapItem)
		data["cheap_buy"] = strconv.FormatInt(e.market.EffectiveBuy(e.cat, e.market.CheapItem), 10)
	}
	e.accept(sess, cmd, fmt.Sprintf("hot: %s, cheap: %s", orNone(e.market.HotItem), orNone(e.market.CheapItem)), data)
}

func (e *Engine) cmdAdmin(sess *session, cmd protocol.CmdMsg) {
	if !sess.Admin {
		e.reject(sess, cmd, protocol.ErrNoPermission, "admin token required")
		return
	}
	switch cmd.Op {
	case protocol.AdminSetMoney:
		v := cmd.Value
		if v < 0 {
			v = 0
		}
		acct := e.store.Mutate(sess.ID, func(a *account.Account) { a.Money = v })
		e.accept(sess, cmd, fmt.Sprintf("money set to %d", acct.Money), nil)
		e.pushSync(sess, acct)
	case protocol.AdminSetLevel:
		lvl := int(cmd.Value)
		if lvl < 1 {
			lvl = 1
		}
		acct := e.store.Mutate(sess.ID, func(a *account.Account) {
			a.Level = lvl
			if a.Xp >= account.XpRequired(a.Level) {
				a.Xp = 0
			}
		})
		e.accept(sess, cmd, fmt.Sprintf("level set to %d", acct.Level), nil)
		e.pushSync(sess, acct)
	case protocol.AdminAddXp:
		var ups []account.LevelUp
		acct := e.store.Mutate(sess.ID, func(a *account.Account) {
			ups = a.AddXp(int(cmd.Value))
		})
		e.accept(sess, cmd, fmt.Sprintf("added %d xp", cmd.Value), nil)
		e.sendLevelUps(sess, ups)
		e.pushSync(sess, acct)
	case protocol.AdminAddMoney:
		acct := e.store.Mutate(sess.ID, func(a *account.Account) { a.AddMoney(cmd.Value) })
		e.accept(sess, cmd, fmt.Sprintf("balance now %d", acct.Money), nil)
		e.pushSync(sess, acct)
	case protocol.AdminRotateMarket:
		// Forced rotation keeps the day stamp so the next day boundary still
		// rotates on its own.
		e.market.Rotate(e.cat, e.rng)
		e.broadcastMarket()
		e.accept(sess, cmd, fmt.Sprintf("hot: %s, cheap: %s", orNone(e.market.HotItem), orNone(e.market.CheapItem)), nil)
	default:
		e.reject(sess, cmd, protocol.ErrBadRequest, "unknown admin op")
	}
}

func (e *Engine) accept(sess *session, cmd protocol.CmdMsg, msg string, data map[string]string) {
	e.send(sess, protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		CmdID:           cmd.ID,
		Cmd:             cmd.Cmd,
		Accepted:        true,
		Message:         msg,
		Data:            data,
	})
}

func (e *Engine) reject(sess *session, cmd protocol.CmdMsg, code, msg string) {
	e.send(sess, protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		CmdID:           cmd.ID,
		Cmd:             cmd.Cmd,
		Accepted:        false,
		Code:            code,
		Message:         msg,
	})
}
