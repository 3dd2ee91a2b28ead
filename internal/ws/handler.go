package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/argumint/debate-backend/internal/engine"
	"github.com/argumint/debate-backend/internal/hub"
	"github.com/argumint/debate-backend/internal/room"
	"github.com/argumint/debate-backend/internal/types"
)

// Handler upgrades a debater's connection and bridges it to the room actor.
// Joining delivers a hydration snapshot before any live event, so a
// reconnecting client never sees a gap; duplicate message ids across
// snapshot and live stream are the client's to merge.
func Handler(h *hub.Hub, typingInterval time.Duration, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("room")
		userID := r.URL.Query().Get("user")
		name := r.URL.Query().Get("name")
		if roomID == "" || userID == "" {
			http.Error(w, "missing room or user", http.StatusBadRequest)
			return
		}

		// First visit creates the room.
		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{ID: roomID, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room unavailable", http.StatusInternalServerError)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Warn("ws accept", zap.String("room", roomID), zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan room.Event, 16)
		subID := uuid.NewString()

		rm.Inbox() <- room.Join{SubID: subID, UserID: userID, Name: name, Outbox: out}
		defer func() { rm.Inbox() <- room.Leave{SubID: subID} }()

		typing := room.NewTypingEmitter(typingInterval, func(isTyping bool) {
			rm.Inbox() <- room.Typing{UserID: userID, IsTyping: isTyping}
		})
		defer typing.Stop()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for ev := range out {
				payload, _ := json.Marshal(ev)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
			// The actor closed the outbox: this subscriber was dropped,
			// rejected, or the room shut down. Close the connection so
			// the reader errors out and the client resubscribes and
			// re-hydrates instead of sitting on a dead link.
			_ = conn.Close(websocket.StatusTryAgainLater, "resubscribe")
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","code":"bad_json"}`))
				continue
			}

			switch cm.Type {
			case "typing":
				typing.Set(cm.IsTyping)

			case "send_message":
				// Clear the opponent's indicator with the message itself.
				typing.Set(false)
				typing.Flush()
				rm.Inbox() <- room.FromClient{SubID: subID, Cmd: engine.Command{
					Type:      engine.CmdSendMessage,
					UserID:    userID,
					Name:      name,
					MessageID: uuid.NewString(),
					Text:      cm.Text,
					At:        time.Now().UTC(),
				}}

			case "confirm_settings":
				rm.Inbox() <- room.FromClient{SubID: subID, Cmd: engine.Command{
					Type:      engine.CmdConfirmSettings,
					UserID:    userID,
					MaxRounds: cm.MaxRounds,
				}}

			default:
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","code":"unknown_type"}`))
			}
		}
	}
}
