package hub

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/argumint/debate-backend/internal/engine"
	"github.com/argumint/debate-backend/internal/judge"
	"github.com/argumint/debate-backend/internal/room"
	"github.com/argumint/debate-backend/internal/store"
)

type HubMsg interface{ isHubMsg() }

// EnsureRoom resolves the actor for a room id, creating it on first visit.
// A brand-new room persists a row with Topic (generated when empty); a known
// room re-hydrates state from its message history.
type EnsureRoom struct {
	ID    string
	Topic string
	Reply chan *room.Room
}

type GetRoom struct {
	ID    string
	Reply chan *room.Room
}

type RemoveRoom struct {
	ID string
}

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

const fallbackTopic = "Technology does more good than harm."

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	store  store.Store
	judge  judge.Judge
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, st store.Store, j judge.Judge, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		store:  st,
		judge:  j,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				if r := h.rooms[msg.ID]; r != nil {
					msg.Reply <- r
					break
				}
				r, err := h.open(msg.ID, msg.Topic)
				if err != nil {
					h.log.Error("open room", zap.String("room", msg.ID), zap.Error(err))
					msg.Reply <- nil
					break
				}
				h.rooms[msg.ID] = r
				msg.Reply <- r

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // may be nil

			case RemoveRoom:
				// Drops the actor only; the persisted room is debate
				// history and stays.
				delete(h.rooms, msg.ID)

			case ShutdownHub:
				for _, r := range h.rooms {
					r.Inbox() <- room.Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}

// open loads or creates the persisted room and spawns its actor.
func (h *Hub) open(id, topic string) (*room.Room, error) {
	row, err := h.store.GetRoom(h.ctx, id)
	switch {
	case err == nil:
		msgs, err := h.store.ListMessages(h.ctx, id)
		if err != nil {
			return nil, err
		}
		state := engine.NewState(id, row.Topic)
		state.MaxRounds = row.MaxRounds
		state.SettingsLocked = row.SettingsLocked
		for _, m := range msgs {
			state.Messages = append(state.Messages, engine.Message{
				ID:        m.ID,
				UserID:    m.UserID,
				Name:      m.Name,
				Role:      engine.Role(m.Role),
				Text:      m.Message,
				CreatedAt: m.CreatedAt,
			})
		}
		// Message history seeds the roles; join-time bindings win, so a
		// participant who joined but never spoke keeps their seat.
		state.Roles = engine.RolesFromMessages(state.Messages)
		bindings, err := h.store.ListRoleBindings(h.ctx, id)
		if err != nil {
			return nil, err
		}
		for uid, role := range bindings {
			state.Roles[uid] = engine.Role(role)
		}
		return room.New(h.ctx, state, h.store, h.judge, h.log), nil

	case errors.Is(err, store.ErrNotFound):
		if topic == "" {
			generated, err := h.judge.GenerateTopic(h.ctx, "")
			if err != nil {
				h.log.Warn("generate topic", zap.Error(err))
				generated = fallbackTopic
			}
			topic = generated
		}
		if err := h.store.CreateRoom(h.ctx, &store.Room{ID: id, Topic: topic}); err != nil {
			return nil, err
		}
		return room.New(h.ctx, engine.NewState(id, topic), h.store, h.judge, h.log), nil

	default:
		return nil, err
	}
}
