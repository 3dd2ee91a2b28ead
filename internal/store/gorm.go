package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

// NewGorm wraps db in a Store and migrates the schema.
func NewGorm(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&Room{}, &RoleBinding{}, &LiveMessage{}, &Debate{}); err != nil {
		return nil, err
	}
	return &gormStore{db: db}, nil
}

func (s *gormStore) CreateRoom(ctx context.Context, room *Room) error {
	return s.db.WithContext(ctx).Create(room).Error
}

func (s *gormStore) GetRoom(ctx context.Context, id string) (*Room, error) {
	var room Room
	err := s.db.WithContext(ctx).First(&room, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *gormStore) LockSettings(ctx context.Context, roomID string, maxRounds int) error {
	return s.db.WithContext(ctx).Model(&Room{}).
		Where("id = ?", roomID).
		Updates(map[string]any{"max_rounds": maxRounds, "settings_locked": true}).Error
}

func (s *gormStore) BindRole(ctx context.Context, roomID, userID, role string) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&RoleBinding{RoomID: roomID, UserID: userID, Role: role}).Error
}

func (s *gormStore) ListRoleBindings(ctx context.Context, roomID string) (map[string]string, error) {
	var rows []RoleBinding
	if err := s.db.WithContext(ctx).Where("room_id = ?", roomID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, b := range rows {
		out[b.UserID] = b.Role
	}
	return out, nil
}

func (s *gormStore) AppendMessage(ctx context.Context, msg *LiveMessage) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *gormStore) ListMessages(ctx context.Context, roomID string) ([]LiveMessage, error) {
	var msgs []LiveMessage
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at").
		Find(&msgs).Error
	return msgs, err
}

func (s *gormStore) ClaimJudgment(ctx context.Context, roomID string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&Room{}).
		Where("id = ? AND judged = ?", roomID, false).
		Update("judged", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) SaveDebates(ctx context.Context, debates []Debate) error {
	return s.db.WithContext(ctx).Create(&debates).Error
}

func (s *gormStore) ListDebates(ctx context.Context, userID string) ([]Debate, error) {
	var debates []Debate
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&debates).Error
	return debates, err
}
