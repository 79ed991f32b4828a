package models

import "time"

// Tag is a canonical label shared across posts. Tags are created lazily on
// first use and never deleted; orphaned rows are cheap and get reused.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Posts []Post `gorm:"many2many:post_tags" json:"-"`
}
