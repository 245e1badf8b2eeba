package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	ParticipantID   string     `json:"participant_id,omitempty"`
	Name            string     `json:"name"`
	Capabilities    HelloCaps  `json:"capabilities,omitempty"`
	Auth            *HelloAuth `json:"auth,omitempty"`
}

type HelloCaps struct {
	MaxQueue int `json:"max_queue,omitempty"`
}

type HelloAuth struct {
	Token string `json:"token,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	ParticipantID   string      `json:"participant_id"`
	WorldParams     WorldParams `json:"world_params"`
	CatalogDigest   string      `json:"catalog_digest"`
	RewardsDigest   string      `json:"rewards_digest"`
}

type WorldParams struct {
	TickRateHz     int `json:"tick_rate_hz"`
	DayTicks       int `json:"day_ticks"`
	SyncEveryTicks int `json:"sync_every_ticks"`
}

// EVENT (client -> server): one in-world activity occurrence.
// Category is the subject's resolved tag (e.g. ORE, CROP, LOG); the engine
// falls back to it when the subject id is not tabled.
type EventMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	Kind            string  `json:"kind"`
	Subject         string  `json:"subject,omitempty"`
	Category        string  `json:"category,omitempty"`
	Quantity        int     `json:"quantity,omitempty"`
	AtMaxGrowth     bool    `json:"at_max_growth,omitempty"`
	X               float64 `json:"x,omitempty"`
	Z               float64 `json:"z,omitempty"`
	Sprinting       bool    `json:"sprinting,omitempty"`
}

// UPGRADE (client -> server): spend one skill point.
// Index order: farming, combat, defense, smithing, woodcutting, mining.
type UpgradeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SkillIndex      int    `json:"skill_index"`
}

// CMD (client -> server): thin command surface over the economy.
type CmdMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id,omitempty"`
	Cmd             string `json:"cmd"`
	Item            string `json:"item,omitempty"`
	Quantity        int    `json:"quantity,omitempty"`
	Op              string `json:"op,omitempty"`
	Value           int64  `json:"value,omitempty"`
}

// Command names.
const (
	CmdBuy         = "BUY"
	CmdSell        = "SELL"
	CmdSellAll     = "SELL_ALL"
	CmdBlackMarket = "BLACKMARKET"
	CmdBalance     = "BALANCE"
	CmdStats       = "STATS"
	CmdMarket      = "MARKET"
	CmdDaily       = "DAILY"
	CmdAdmin       = "ADMIN"
)

// Admin sub-operations.
const (
	AdminSetMoney     = "SETMONEY"
	AdminSetLevel     = "SETLEVEL"
	AdminAddXp        = "ADDXP"
	AdminAddMoney     = "ADDMONEY"
	AdminRotateMarket = "ROTATEMARKET"
)

// SYNC (server -> client): periodic authoritative snapshot.
type SyncMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	Money           int64  `json:"money"`
	Level           int    `json:"level"`
	Xp              int    `json:"xp"`
	XpRequired      int    `json:"xp_required"`
	HotItem         string `json:"hot_item"`
	SkillPoints     int    `json:"skill_points"`
	Skills          [6]int `json:"skills"`
}

// REWARD (server -> client): pushed on a qualifying reward.
// For LEVEL_UP the Xp field carries the new level and Money the level bonus.
type RewardMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Kind            string `json:"kind"`
	Xp              int    `json:"xp"`
	Money           int64  `json:"money"`
	VanillaXp       int    `json:"vanilla_xp,omitempty"`
	Bonus           bool   `json:"bonus,omitempty"`
	BonusSkill      string `json:"bonus_skill,omitempty"`
}

// MARKET (server -> client): broadcast on rotation.
type MarketMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	HotItem         string `json:"hot_item"`
	HotName         string `json:"hot_name"`
	CheapItem       string `json:"cheap_item"`
	CheapName       string `json:"cheap_name"`
}

// RESULT (server -> client): reply to a CMD.
type ResultMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	CmdID           string            `json:"cmd_id,omitempty"`
	Cmd             string            `json:"cmd"`
	Accepted        bool              `json:"accepted"`
	Code            string            `json:"code,omitempty"`
	Message         string            `json:"message,omitempty"`
	Data            map[string]string `json:"data,omitempty"`
}
