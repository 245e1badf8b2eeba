package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Command layer.
	ErrBadRequest   = "E_BAD_REQUEST"
	ErrUnknownItem  = "E_UNKNOWN_ITEM"
	ErrNotBuyable   = "E_NOT_BUYABLE"
	ErrNotSellable  = "E_NOT_SELLABLE"
	ErrNoFunds      = "E_NO_FUNDS"
	ErrNoItems      = "E_NO_ITEMS"
	ErrNoPoints     = "E_NO_POINTS"
	ErrSkillMaxed   = "E_SKILL_MAXED"
	ErrNoPermission = "E_NO_PERMISSION"
	ErrInternal     = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrUnknownItem:     {},
	ErrNotBuyable:      {},
	ErrNotSellable:     {},
	ErrNoFunds:         {},
	ErrNoItems:         {},
	ErrNoPoints:        {},
	ErrSkillMaxed:      {},
	ErrNoPermission:    {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
