package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/argumint/debate-backend/internal/hub"
	"github.com/argumint/debate-backend/internal/judge"
	"github.com/argumint/debate-backend/internal/room"
	"github.com/argumint/debate-backend/internal/store"
)

type judgeRequest struct {
	DebaterA string `json:"debaterA"`
	DebaterB string `json:"debaterB"`
	Topic    string `json:"topic"`
	NameA    string `json:"nameA"`
	NameB    string `json:"nameB"`
}

// JudgeDebate scores two finished transcripts. 400 when a transcript is
// missing, 500 when the judge errors or returns something unparseable.
func JudgeDebate(j judge.Judge, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req judgeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}
		if req.DebaterA == "" || req.DebaterB == "" {
			writeError(w, http.StatusBadRequest, "Missing transcripts.")
			return
		}

		out, err := j.Score(r.Context(), judge.Transcripts{
			DebaterA: req.DebaterA,
			DebaterB: req.DebaterB,
			Topic:    req.Topic,
			NameA:    req.NameA,
			NameB:    req.NameB,
		})
		if err != nil {
			log.Error("judging failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Judging failed")
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type createRoomRequest struct {
	Topic    string `json:"topic"`
	Interest string `json:"interest"`
}

// CreateRoom creates a debate room. The topic is either carried over from a
// prior generation step or generated now from the caller's interest.
func CreateRoom(h *hub.Hub, j judge.Judge, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRoomRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		topic := req.Topic
		if topic == "" {
			generated, err := j.GenerateTopic(r.Context(), req.Interest)
			if err != nil {
				log.Error("generate topic", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "failed to generate topic")
				return
			}
			topic = generated
		}

		id := uuid.NewString()
		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{ID: id, Topic: topic, Reply: reply}
		if <-reply == nil {
			writeError(w, http.StatusInternalServerError, "failed to create room")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"id": id, "topic": topic})
	}
}

type topicRequest struct {
	Interest string `json:"interest"`
}

func GenerateTopic(j judge.Judge, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req topicRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		topic, err := j.GenerateTopic(r.Context(), req.Interest)
		if err != nil {
			log.Error("generate topic", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to generate topic")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"topic": topic})
	}
}

// ListDebates returns a user's judged debate history, newest first.
func ListDebates(st store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "missing user_id")
			return
		}
		debates, err := st.ListDebates(r.Context(), userID)
		if err != nil {
			log.Error("list debates", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load debates")
			return
		}
		if debates == nil {
			debates = []store.Debate{}
		}
		writeJSON(w, http.StatusOK, debates)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
