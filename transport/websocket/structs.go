package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/reversi-backend/internal/entity"
)

// Message is the envelope every websocket exchange uses: an action name plus
// an action-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries both requests and responses. Moves is the mover's current
// legal-move map, sent with every game update so clients can render move
// markers without mutating board state themselves.
type Payload struct {
	Player *entity.Player                             `json:"player,omitempty"`
	Game   *entity.Game                               `json:"game,omitempty"`
	Target *entity.Coordinate                         `json:"target,omitempty"`
	Moves  map[entity.Coordinate]entity.CaptureChain  `json:"moves,omitempty"`
	Scores map[string]int                             `json:"scores,omitempty"`
	Error  string                                     `json:"error,omitempty"`
}
