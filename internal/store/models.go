package store

import "time"

// Room is a debate session. Rows are never deleted; a finished room is the
// debate's permanent record.
type Room struct {
	ID             string `gorm:"primaryKey"`
	Topic          string
	MaxRounds      int
	SettingsLocked bool
	// Judged flips true exactly once, via ClaimJudgment. It is the
	// storage-level guard that keeps judgment single-fire.
	Judged    bool
	CreatedAt time.Time
}

// RoleBinding pins a user to the seat they were assigned on first join.
// Without it a participant who joined but never spoke would be re-seated
// by arrival order after the actor is rebuilt.
type RoleBinding struct {
	RoomID    string `gorm:"primaryKey"`
	UserID    string `gorm:"primaryKey"`
	Role      string
	CreatedAt time.Time
}

// LiveMessage is one turn of a debate. Insert order within a room defines
// turn order.
type LiveMessage struct {
	ID        string `gorm:"primaryKey"`
	RoomID    string `gorm:"index"`
	UserID    string
	Name      string
	Role      string
	Message   string
	CreatedAt time.Time
}

func (LiveMessage) TableName() string { return "debates_live" }

// Debate is one participant's view of a judged debate: their own transcript,
// score and feedback first, the opponent's second.
type Debate struct {
	ID             uint   `gorm:"primaryKey"`
	RoomID         string `gorm:"index"`
	UserID         string `gorm:"index"`
	Topic          string
	TranscriptUser string
	TranscriptAI   string `gorm:"column:transcript_ai"`
	Winner         string
	ScoreUser      int    `gorm:"column:score_user"`
	ScoreAI        int    `gorm:"column:score_ai"`
	FeedbackUser   string
	FeedbackAI     string `gorm:"column:feedback_ai"`
	CreatedAt      time.Time
}
