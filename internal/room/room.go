package room

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/argumint/debate-backend/internal/engine"
	"github.com/argumint/debate-backend/internal/judge"
	"github.com/argumint/debate-backend/internal/store"
)

type Msg interface{ isRoomMsg() }

type Join struct {
	SubID  string
	UserID string
	Name   string
	Outbox chan Event
}

func (Join) isRoomMsg() {}

type Leave struct{ SubID string }

func (Leave) isRoomMsg() {}

type FromClient struct {
	SubID string
	Cmd   engine.Command
}

func (FromClient) isRoomMsg() {}

type Typing struct {
	UserID   string
	IsTyping bool
}

func (Typing) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

// judgmentResult carries the verdict (or failure) from the judging goroutine
// back into the actor loop for broadcast.
type judgmentResult struct {
	payload *JudgmentPayload
	err     error
}

func (judgmentResult) isRoomMsg() {}

type View struct {
	Version int
	NumSubs int
	State   engine.State
}

type subscriber struct {
	userID string
	outbox chan Event
}

// Room is the actor owning one debate. All state transitions, persistence
// and fan-out happen in its loop, which is what serializes concurrent sends
// and makes turn order well-defined.
type Room struct {
	id      string
	inbox   chan Msg
	state   engine.State
	version int
	subs    map[string]*subscriber
	store   store.Store
	judge   judge.Judge
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, initial engine.State, st store.Store, j judge.Judge, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		id:     initial.RoomID,
		inbox:  make(chan Msg, 64),
		state:  initial,
		subs:   make(map[string]*subscriber),
		store:  st,
		judge:  j,
		log:    log.With(zap.String("room", initial.RoomID)),
		ctx:    ctx,
		cancel: cancel,
	}

	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)

			case Leave:
				if sub := r.subs[msg.SubID]; sub != nil {
					close(sub.outbox)
					delete(r.subs, msg.SubID)
				}

			case FromClient:
				r.handleCommand(msg)

			case Typing:
				// Ephemeral: no persistence, no ordering guarantee,
				// everyone but the typist hears it.
				ev := Event{
					Type:   EventTypingChanged,
					Typing: &TypingStatus{UserID: msg.UserID, IsTyping: msg.IsTyping},
				}
				for id, sub := range r.subs {
					if sub.userID == msg.UserID {
						continue
					}
					r.send(id, sub, ev)
				}

			case judgmentResult:
				if msg.err != nil {
					r.log.Warn("judging failed", zap.Error(msg.err))
					r.broadcast(Event{Type: EventJudgingFailed, Code: "judging_unavailable"})
					break
				}
				r.broadcast(Event{Type: EventJudgmentReady, Judgment: msg.payload})

			case GetState:
				msg.Reply <- View{
					Version: r.version,
					NumSubs: len(r.subs),
					State:   r.state,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	_, seated := r.state.Roles[msg.UserID]
	role, newState, err := engine.AssignRole(r.state, msg.UserID)
	if err != nil {
		msg.Outbox <- Event{Type: EventError, Code: errorCode(err)}
		close(msg.Outbox)
		return
	}
	r.state = newState

	if !seated {
		// Pin the seat so the user keeps it even if the actor is
		// rebuilt before they send anything. History-based recovery
		// still covers us if this write fails.
		if err := r.store.BindRole(r.ctx, r.id, msg.UserID, string(role)); err != nil {
			r.log.Warn("bind role", zap.String("user", msg.UserID), zap.Error(err))
		}
	}

	r.subs[msg.SubID] = &subscriber{userID: msg.UserID, outbox: msg.Outbox}

	snap := Snapshot{
		RoomID:         r.state.RoomID,
		Topic:          r.state.Topic,
		MaxRounds:      r.state.MaxRounds,
		SettingsLocked: r.state.SettingsLocked,
		Phase:          engine.DerivePhase(r.state),
		Role:           role,
		Messages:       append([]engine.Message{}, r.state.Messages...),
	}
	msg.Outbox <- Event{Type: EventSnapshot, Version: r.version, Snapshot: &snap}
}

func (r *Room) handleCommand(msg FromClient) {
	sub := r.subs[msg.SubID]
	if sub == nil {
		return
	}

	events, newState, err := engine.Apply(r.state, msg.Cmd)
	if err != nil {
		// Validation failures never reach the store.
		r.send(msg.SubID, sub, Event{Type: EventError, Code: errorCode(err)})
		return
	}

	switch msg.Cmd.Type {
	case engine.CmdConfirmSettings:
		if err := r.store.LockSettings(r.ctx, r.id, msg.Cmd.MaxRounds); err != nil {
			r.log.Error("lock settings", zap.Error(err))
			r.send(msg.SubID, sub, Event{Type: EventError, Code: "send_failed"})
			return
		}
		r.state = newState
		r.version++
		r.broadcast(Event{Type: EventSettingsLocked, Version: r.version, MaxRounds: msg.Cmd.MaxRounds})

	case engine.CmdSendMessage:
		added := events[0].Message
		row := store.LiveMessage{
			ID:        added.ID,
			RoomID:    r.id,
			UserID:    added.UserID,
			Name:      added.Name,
			Role:      string(added.Role),
			Message:   added.Text,
			CreatedAt: added.CreatedAt,
		}
		if err := r.store.AppendMessage(r.ctx, &row); err != nil {
			// Turn does not advance; the sender may retry manually.
			r.log.Error("append message", zap.Error(err))
			r.send(msg.SubID, sub, Event{Type: EventError, Code: "send_failed"})
			return
		}
		r.state = newState
		r.version++
		r.broadcast(Event{Type: EventMessageCreated, Version: r.version, Message: added})

		if engine.ContainsEvent(events, engine.EvtDebateCompleted) {
			r.triggerJudgment()
		}
	}
}

// triggerJudgment starts the one-shot judging computation. The storage claim
// is the single-writer guard: whichever caller flips the room's judged flag
// first does the work, all others stand down. The blocking judge call runs
// off the loop so typing and joins keep flowing.
func (r *Room) triggerJudgment() {
	s := r.state
	userA, _ := engine.RoleUser(s, engine.RoleA)
	userB, _ := engine.RoleUser(s, engine.RoleB)

	t := judge.Transcripts{
		DebaterA: engine.Transcript(s, engine.RoleA),
		DebaterB: engine.Transcript(s, engine.RoleB),
		Topic:    s.Topic,
		NameA:    displayName(s, engine.RoleA),
		NameB:    displayName(s, engine.RoleB),
	}

	go func() {
		ctx, cancel := context.WithTimeout(r.ctx, 60*time.Second)
		defer cancel()

		claimed, err := r.store.ClaimJudgment(ctx, r.id)
		if err != nil {
			r.log.Error("claim judgment", zap.Error(err))
			return
		}
		if !claimed {
			return
		}

		out, err := r.judge.Score(ctx, t)
		if err != nil {
			select {
			case r.inbox <- judgmentResult{err: err}:
			case <-r.ctx.Done():
			}
			return
		}

		debates := []store.Debate{
			{
				RoomID:         r.id,
				UserID:         userA,
				Topic:          s.Topic,
				TranscriptUser: t.DebaterA,
				TranscriptAI:   t.DebaterB,
				Winner:         out.Winner,
				ScoreUser:      out.Score.DebaterA,
				ScoreAI:        out.Score.DebaterB,
				FeedbackUser:   out.Feedback.DebaterA,
				FeedbackAI:     out.Feedback.DebaterB,
			},
			{
				RoomID:         r.id,
				UserID:         userB,
				Topic:          s.Topic,
				TranscriptUser: t.DebaterB,
				TranscriptAI:   t.DebaterA,
				Winner:         out.Winner,
				ScoreUser:      out.Score.DebaterB,
				ScoreAI:        out.Score.DebaterA,
				FeedbackUser:   out.Feedback.DebaterB,
				FeedbackAI:     out.Feedback.DebaterA,
			},
		}
		if err := r.store.SaveDebates(ctx, debates); err != nil {
			select {
			case r.inbox <- judgmentResult{err: err}:
			case <-r.ctx.Done():
			}
			return
		}

		payload := &JudgmentPayload{
			Winner:   out.Winner,
			Score:    out.Score,
			Feedback: out.Feedback,
			Topic:    s.Topic,
			NameA:    t.NameA,
			NameB:    t.NameB,
		}
		select {
		case r.inbox <- judgmentResult{payload: payload}:
		case <-r.ctx.Done():
		}
	}()
}

func displayName(s engine.State, role engine.Role) string {
	for _, m := range s.Messages {
		if m.Role == role && m.Name != "" {
			return m.Name
		}
	}
	if role == engine.RoleA {
		return "Debater A"
	}
	return "Debater B"
}

func (r *Room) shutdown() {
	for id, sub := range r.subs {
		close(sub.outbox)
		delete(r.subs, id)
	}
	r.cancel()
}

func (r *Room) broadcast(ev Event) {
	for id, sub := range r.subs {
		r.send(id, sub, ev)
	}
}

func (r *Room) send(id string, sub *subscriber, ev Event) {
	select {
	case sub.outbox <- ev:
		// ok
	default:
		// Subscriber is slow/full - drop them. They re-hydrate on rejoin.
		close(sub.outbox)
		delete(r.subs, id)
	}
}
