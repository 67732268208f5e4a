package models

import "time"

// CaseHistory is an immutable snapshot of a case's tracked fields. Rows are
// appended only when the snapshot differs from every existing row of the
// case, so the earliest row is the canonical record of what the citizen
// originally submitted.
type CaseHistory struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	CaseID uint  `gorm:"not null;index" json:"case_id"`
	Case   *Case `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	// Editor is attribution, not ownership: it survives as NULL when the
	// user account is deleted.
	EditorID *uint `json:"editor_id,omitempty"`
	Editor   *User `gorm:"constraint:OnDelete:SET NULL" json:"-"`

	CaseSnapshot `gorm:"embedded"`

	CreateTime time.Time `gorm:"autoCreateTime;index" json:"create_time"`
}

func (CaseHistory) TableName() string {
	return "case_histories"
}
