package app

// Gate is the operator allow-list. Every inbound chat update is checked
// against it before any business logic runs; unknown senders are ignored.
type Gate struct {
	allowed map[int64]struct{}
}

// NewGate builds a gate from the configured operator ids. An empty list
// means nobody is allowed — the gate never fails open.
func NewGate(userIDs []int64) *Gate {
	allowed := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		allowed[id] = struct{}{}
	}
	return &Gate{allowed: allowed}
}

// Allowed reports whether the given chat user may operate the bot.
func (g *Gate) Allowed(userID int64) bool {
	_, ok := g.allowed[userID]
	return ok
}
