package engine

import (
	"encoding/json"

	"frontier.rpg/internal/protocol"
	"frontier.rpg/internal/sim/account"
)

func (e *Engine) send(sess *session, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		if e.logger != nil {
			e.logger.Printf("marshal outbound for %s: %v", sess.ID, err)
		}
		return
	}
	sendLatest(sess.Out, b)
}

func (e *Engine) buildSync(acct *account.Account) protocol.SyncMsg {
	m := protocol.SyncMsg{
		Type:            protocol.TypeSync,
		ProtocolVersion: protocol.Version,
		Tick:            e.tick,
		Money:           acct.Money,
		Level:           acct.Level,
		Xp:              acct.Xp,
		XpRequired:      account.XpRequired(acct.Level),
		HotItem:         "None",
		SkillPoints:     acct.SkillPoints,
		Skills:          acct.Skills,
	}
	if e.market.HotItem != "" {
		m.HotItem = e.cat.DisplayName(e.market.HotItem)
	}
	return m
}

func (e *Engine) pushSync(sess *session, acct *account.Account) {
	e.send(sess, e.buildSync(acct))
}

func (e *Engine) sendReward(sess *session, msg protocol.RewardMsg) {
	e.send(sess, msg)
}

func (e *Engine) sendLevelUps(sess *session, ups []account.LevelUp) {
	for _, up := range ups {
		e.send(sess, protocol.RewardMsg{
			Type:            protocol.TypeReward,
			ProtocolVersion: protocol.Version,
			Kind:            protocol.RewardLevelUp,
			Xp:              up.Level,
			Money:           up.Money,
		})
	}
}

func (e *Engine) broadcastMarket() {
	msg := protocol.MarketMsg{
		Type:            protocol.TypeMarket,
		ProtocolVersion: protocol.Version,
		HotItem:         e.market.HotItem,
		CheapItem:       e.market.CheapItem,
	}
	if e.market.HotItem != "" {
		msg.HotName = e.cat.DisplayName(e.market.HotItem)
	}
	if e.market.CheapItem != "" {
		msg.CheapName = e.cat.DisplayName(e.market.CheapItem)
	}
	for _, sess := range e.sessions {
		e.send(sess, msg)
	}
}
