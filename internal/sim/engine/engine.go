package engine

import (
	"context"
	"log"
	"math/rand"
	"time"

	"frontier.rpg/internal/protocol"
	"frontier.rpg/internal/sim/account"
	"frontier.rpg/internal/sim/catalog"
	"frontier.rpg/internal/sim/market"
	"frontier.rpg/internal/sim/rewards"
	"frontier.rpg/internal/sim/tuning"
)

type Config struct {
	TickRateHz     int
	DayTicks       int
	SyncEveryTicks int
	Movement       tuning.Movement
}

type JoinRequest struct {
	ParticipantID string
	Name          string
	Admin         bool
	Out           chan []byte
	Resp          chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
}

type EventEnvelope struct {
	ParticipantID string
	Ev            protocol.EventMsg
}

type UpgradeEnvelope struct {
	ParticipantID string
	SkillIndex    int
}

type CmdEnvelope struct {
	ParticipantID string
	Cmd           protocol.CmdMsg
}

// Engine is the single-threaded authoritative progression loop. All account
// and market state must be accessed only from the engine goroutine.
type Engine struct {
	cfg    Config
	logger *log.Logger

	cat    *catalog.Catalog
	tables *rewards.Tables
	store  *account.Store
	market *market.Market

	rng *rand.Rand
	now func() time.Time

	tick     uint64
	sessions map[string]*session

	join     chan JoinRequest
	leave    chan string
	events   chan EventEnvelope
	upgrades chan UpgradeEnvelope
	cmds     chan CmdEnvelope
	stop     chan struct{}
}

// session is per-connection state: the outbound queue plus the movement
// accumulator, which lives and dies with the connection.
type session struct {
	ID    string
	Name  string
	Admin bool
	Out   chan []byte

	hasPos         bool
	lastX, lastZ   float64
	distance       float64
	lastMoveReward time.Time
}

func New(cfg Config, cat *catalog.Catalog, tables *rewards.Tables, store *account.Store, mkt *market.Market, seed int64, logger *log.Logger) *Engine {
	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = 20
	}
	if cfg.DayTicks <= 0 {
		cfg.DayTicks = 24000
	}
	return &Engine{
		cfg:      cfg,
		logger:   logger,
		cat:      cat,
		tables:   tables,
		store:    store,
		market:   mkt,
		rng:      rand.New(rand.NewSource(seed)),
		now:      time.Now,
		sessions: map[string]*session{},
		join:     make(chan JoinRequest, 16),
		leave:    make(chan string, 16),
		events:   make(chan EventEnvelope, 256),
		upgrades: make(chan UpgradeEnvelope, 16),
		cmds:     make(chan CmdEnvelope, 64),
		stop:     make(chan struct{}),
	}
}

func (e *Engine) Join() chan<- JoinRequest         { return e.join }
func (e *Engine) Leave() chan<- string             { return e.leave }
func (e *Engine) Events() chan<- EventEnvelope     { return e.events }
func (e *Engine) Upgrades() chan<- UpgradeEnvelope { return e.upgrades }
func (e *Engine) Cmds() chan<- CmdEnvelope         { return e.cmds }

func (e *Engine) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(e.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingJoins []JoinRequest
	var pendingLeaves []string
	var pendingEvents []EventEnvelope
	var pendingUpgrades []UpgradeEnvelope
	var pendingCmds []CmdEnvelope

	for {
		select {
		case <-ctx.Done():
			e.flushAll()
			return ctx.Err()
		case <-e.stop:
			e.flushAll()
			return nil
		case req := <-e.join:
			pendingJoins = append(pendingJoins, req)
		case id := <-e.leave:
			pendingLeaves = append(pendingLeaves, id)
		case env := <-e.events:
			pendingEvents = append(pendingEvents, env)
		case env := <-e.upgrades:
			pendingUpgrades = append(pendingUpgrades, env)
		case env := <-e.cmds:
			pendingCmds = append(pendingCmds, env)
		case <-ticker.C:
			e.stepInternal(pendingJoins, pendingLeaves, pendingEvents, pendingUpgrades, pendingCmds)
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
			pendingEvents = pendingEvents[:0]
			pendingUpgrades = pendingUpgrades[:0]
			pendingCmds = pendingCmds[:0]
		}
	}
}

func (e *Engine) Stop() { close(e.stop) }

// StepOnce advances the engine by a single tick with the same ordering
// semantics as Run. Intended for tests.
func (e *Engine) StepOnce(joins []JoinRequest, leaves []string, events []EventEnvelope, upgrades []UpgradeEnvelope, cmds []CmdEnvelope) uint64 {
	t := e.tick
	e.stepInternal(joins, leaves, events, upgrades, cmds)
	return t
}

// Tick returns the current tick counter.
func (e *Engine) Tick() uint64 { return e.tick }

// Day returns the in-world day index for a tick.
func (e *Engine) Day(tick uint64) int64 { return int64(tick / uint64(e.cfg.DayTicks)) }

func (e *Engine) flushAll() {
	for id := range e.sessions {
		e.store.Evict(id)
	}
}

// sendLatest enqueues without blocking the loop; when the client's queue is
// full the oldest message is dropped in favor of the newest.
func sendLatest(ch chan []byte, b []byte) {
	if ch == nil {
		return
	}
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
