package engine

import (
	"frontier.rpg/internal/protocol"
	"frontier.rpg/internal/sim/account"
)

func (e *Engine) stepInternal(joins []JoinRequest, leaves []string, events []EventEnvelope, upgrades []UpgradeEnvelope, cmds []CmdEnvelope) {
	nowTick := e.tick

	// Leaves and joins apply at the tick boundary, leaves first so a
	// reconnect in the same batch sees the flushed record.
	for _, id := range leaves {
		if _, ok := e.sessions[id]; ok {
			e.handleLeave(id)
		}
	}
	for _, req := range joins {
		resp := e.handleJoin(req)
		if req.Resp != nil {
			req.Resp <- resp
		}
	}

	// Market rotation fires when the in-world day index advances. Checking
	// every tick is safe; same-day triggers are no-ops.
	if e.market.MaybeRotate(e.Day(nowTick), e.cat, e.rng) {
		e.broadcastMarket()
		if e.logger != nil {
			e.logger.Printf("market rotated: hot=%s cheap=%s", orNone(e.market.HotItem), orNone(e.market.CheapItem))
		}
	}

	for _, env := range events {
		sess := e.sessions[env.ParticipantID]
		if sess == nil {
			continue
		}
		e.applyEvent(sess, env.Ev)
	}

	for _, env := range upgrades {
		e.handleUpgrade(env)
	}

	for _, env := range cmds {
		sess := e.sessions[env.ParticipantID]
		if sess == nil {
			continue
		}
		e.handleCmd(sess, env.Cmd)
	}

	if e.cfg.SyncEveryTicks > 0 && nowTick%uint64(e.cfg.SyncEveryTicks) == 0 {
		for id, sess := range e.sessions {
			e.pushSync(sess, e.store.Get(id))
		}
	}

	e.tick++
}

func (e *Engine) handleJoin(req JoinRequest) JoinResponse {
	sess := &session{
		ID:    req.ParticipantID,
		Name:  req.Name,
		Admin: req.Admin,
		Out:   req.Out,
	}
	e.sessions[req.ParticipantID] = sess

	first := false
	acct := e.store.Mutate(req.ParticipantID, func(a *account.Account) {
		first = a.LastLogin == 0
		a.LastLogin = e.now().UnixMilli()
		if req.Name != "" {
			a.Name = req.Name
		}
	})
	if first && e.logger != nil {
		e.logger.Printf("participant %s (%s): first login, starting balance %d", req.ParticipantID, req.Name, acct.Money)
	}

	return JoinResponse{Welcome: protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		ParticipantID:   req.ParticipantID,
		WorldParams: protocol.WorldParams{
			TickRateHz:     e.cfg.TickRateHz,
			DayTicks:       e.cfg.DayTicks,
			SyncEveryTicks: e.cfg.SyncEveryTicks,
		},
		CatalogDigest: e.cat.Digest,
		RewardsDigest: e.tables.Digest,
	}}
}

func (e *Engine) handleLeave(id string) {
	e.store.Evict(id)
	delete(e.sessions, id)
}

func (e *Engine) handleUpgrade(env UpgradeEnvelope) {
	sess := e.sessions[env.ParticipantID]
	if sess == nil {
		return
	}
	if !account.ValidSkill(env.SkillIndex) {
		// Invalid requests are dropped at the boundary with no mutation.
		return
	}
	ok := false
	acct := e.store.Mutate(env.ParticipantID, func(a *account.Account) {
		ok = a.Upgrade(account.Skill(env.SkillIndex))
	})
	if !ok {
		return
	}
	// Out-of-band snapshot so the display reflects the spend immediately.
	e.pushSync(sess, acct)
}

func orNone(item string) string {
	if item == "" {
		return "none"
	}
	return item
}
