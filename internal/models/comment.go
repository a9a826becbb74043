package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultNickname is used when a commenter does not supply one.
const DefaultNickname = "Anonymous"

// VoteSnapshot maps question ID to the option the commenter had selected
// when the comment was posted. Questions the IP never answered are absent.
// Stored as a JSON column.
type VoteSnapshot map[string]string

// Value implements driver.Valuer.
func (s VoteSnapshot) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *VoteSnapshot) Scan(value any) error {
	if value == nil {
		*s = VoteSnapshot{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported vote snapshot type %T", value)
	}
	if len(data) == 0 {
		*s = VoteSnapshot{}
		return nil
	}
	return json.Unmarshal(data, s)
}

// Comment is a board comment. Likes holds the cached count of CommentLike
// rows and is only ever changed together with them, in one transaction.
type Comment struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	Nickname  string       `gorm:"size:40" json:"nickname"`
	IP        string       `gorm:"not null;index" json:"-"`
	Country   string       `json:"country"`
	City      string       `json:"city"`
	Votes     VoteSnapshot `gorm:"type:jsonb" json:"votes"`
	Likes     int64        `gorm:"not null;default:0" json:"likes"`
	CreatedAt time.Time    `gorm:"index:idx_comments_created_at,sort:desc" json:"created_at"`
}

// CommentLike records that an IP likes a comment. The unique index is the
// authoritative liked-by set; it is never exposed to other clients.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_likes_comment_ip" json:"-"`
	IP        string    `gorm:"not null;uniqueIndex:idx_comment_likes_comment_ip" json:"-"`
	CreatedAt time.Time `json:"-"`
}
