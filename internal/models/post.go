package models

import "time"

// Post is a user-authored text entry, optionally grouped and illustrated.
//
// A post is either absent or present; there is no status field. CreatedAt is
// set once at creation and never changes, updates only touch text, group and
// image. Deleting the author removes the post; deleting the group only clears
// the group reference.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	AuthorID uint   `gorm:"not null;index:idx_posts_author_created,priority:1" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID  *uint  `gorm:"index" json:"group_id,omitempty"`
	Group    *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	// Image is the media-relative path of the stored attachment, empty when
	// the post has none.
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_posts_author_created,priority:2" json:"created_at"`
}
