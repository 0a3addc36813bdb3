package models

import "time"

// QuickLink is an admin-managed link shown on the intranet dashboard.
type QuickLink struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200"`
	URL         string  `json:"url" gorm:"not null;size:500"`
	Description *string `json:"description" gorm:"size:500"`
	SortOrder   int     `json:"sort_order" gorm:"default:0"`
	CreatedBy   string  `json:"created_by" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (QuickLink) TableName() string {
	return "quick_links"
}
