package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/ringside/blackjack-api/internal/core/domain"
)

type userModel struct {
	ID           int64     `gorm:"primaryKey"`
	FirstName    string    `gorm:"size:100;not null"`
	LastName     string    `gorm:"size:100;not null"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

type gameModel struct {
	ID          int64          `gorm:"primaryKey"`
	UserID      int64          `gorm:"not null;index:idx_game_history_user_played,priority:1"`
	User        userModel      `gorm:"constraint:OnDelete:CASCADE"`
	PlayerHand  datatypes.JSON `gorm:"not null"`
	DealerHand  datatypes.JSON `gorm:"not null"`
	Result      string         `gorm:"size:10;not null"`
	PlayerScore int            `gorm:"not null"`
	DealerScore int            `gorm:"not null"`
	PlayedAt    time.Time      `gorm:"not null;index:idx_game_history_user_played,priority:2,sort:desc"`
}

func (gameModel) TableName() string { return "game_history" }

func newGameModel(r *domain.GameRecord) (*gameModel, error) {
	player, err := json.Marshal(r.PlayerHand)
	if err != nil {
		return nil, fmt.Errorf("encode player hand: %w", err)
	}
	dealer, err := json.Marshal(r.DealerHand)
	if err != nil {
		return nil, fmt.Errorf("encode dealer hand: %w", err)
	}
	return &gameModel{
		UserID:      r.UserID,
		PlayerHand:  datatypes.JSON(player),
		DealerHand:  datatypes.JSON(dealer),
		Result:      string(r.Result),
		PlayerScore: r.PlayerScore,
		DealerScore: r.DealerScore,
		PlayedAt:    r.PlayedAt,
	}, nil
}

func (m *gameModel) toDomain() (*domain.GameRecord, error) {
	r := &domain.GameRecord{
		ID:          m.ID,
		UserID:      m.UserID,
		Result:      domain.Result(m.Result),
		PlayerScore: m.PlayerScore,
		DealerScore: m.DealerScore,
		PlayedAt:    m.PlayedAt,
	}
	if err := json.Unmarshal(m.PlayerHand, &r.PlayerHand); err != nil {
		return nil, fmt.Errorf("decode player hand of game %d: %w", m.ID, err)
	}
	if err := json.Unmarshal(m.DealerHand, &r.DealerHand); err != nil {
		return nil, fmt.Errorf("decode dealer hand of game %d: %w", m.ID, err)
	}
	return r, nil
}
