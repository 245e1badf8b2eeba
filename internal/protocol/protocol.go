package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeEvent   = "EVENT"
	TypeUpgrade = "UPGRADE"
	TypeCmd     = "CMD"
	TypeSync    = "SYNC"
	TypeReward  = "REWARD"
	TypeMarket  = "MARKET"
	TypeResult  = "RESULT"
)

// Activity kinds carried by EVENT messages.
const (
	KindMining     = "MINING"
	KindCombat     = "COMBAT"
	KindHarvesting = "HARVESTING"
	KindSmelting   = "SMELTING"
	KindMovement   = "MOVEMENT"
)

// Reward notification kinds.
const (
	RewardGeneral       = "GENERAL"
	RewardCombatHostile = "COMBAT_HOSTILE"
	RewardCombatPassive = "COMBAT_PASSIVE"
	RewardLevelUp       = "LEVEL_UP"
	RewardSmelting      = "SMELTING"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
