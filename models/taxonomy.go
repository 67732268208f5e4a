package models

import "time"

// CaseType and Region are lookup tables referenced by cases. Deleting one
// cascades to its cases: cases are treated as owned by their taxonomy.

type CaseType struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:50;not null" json:"name"`
	UpdateTime time.Time `gorm:"autoUpdateTime" json:"update_time"`
}

func (CaseType) TableName() string {
	return "case_types"
}

type Region struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:50;not null" json:"name"`
	UpdateTime time.Time `gorm:"autoUpdateTime" json:"update_time"`
}

func (Region) TableName() string {
	return "regions"
}
