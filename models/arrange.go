package models

import "time"

// Arrange is one unit of progress on a case. A case can only close once it
// has at least one arrange and every arrange has been published.
type Arrange struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CaseID       uint      `gorm:"not null;index" json:"case_id"`
	Case         *Case     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Content      string    `gorm:"type:text" json:"content"`
	EmailContent string    `gorm:"type:text" json:"email_content"`
	Published    bool      `gorm:"not null;default:false" json:"published"`
	ArrangeTime  time.Time `json:"arrange_time"`
	CreateTime   time.Time `gorm:"autoCreateTime" json:"create_time"`
	UpdateTime   time.Time `gorm:"autoUpdateTime" json:"update_time"`
}

func (Arrange) TableName() string {
	return "arranges"
}
