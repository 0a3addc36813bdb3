package models

import "time"

// Feedback is a note submitted by a member, visible to administrators.
type Feedback struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	AuthorID string `json:"author_id" gorm:"not null;size:255;index"`
	Subject  string `json:"subject" gorm:"not null;size:200"`
	Body     string `json:"body" gorm:"not null;size:4000"`

	Author *Profile `json:"author,omitempty" gorm:"foreignKey:AuthorID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
