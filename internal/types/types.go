package types

// ClientMessage is what a debater sends over the websocket.
type ClientMessage struct {
	Type      string `json:"type"` // "send_message" | "confirm_settings" | "typing"
	Text      string `json:"text,omitempty"`
	MaxRounds int    `json:"max_rounds,omitempty"`
	IsTyping  bool   `json:"is_typing,omitempty"`
}
