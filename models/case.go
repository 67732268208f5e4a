package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CaseState string

const (
	CaseStateDraft       CaseState = "draft"
	CaseStateDisapproved CaseState = "disapproved"
	CaseStateArranged    CaseState = "arranged"
	CaseStateClosed      CaseState = "closed"
)

// Title returns the display label for a state.
func (s CaseState) Title() string {
	switch s {
	case CaseStateDraft:
		return "Pending"
	case CaseStateDisapproved:
		return "Rejected"
	case CaseStateArranged:
		return "In Progress"
	case CaseStateClosed:
		return "Closed"
	}
	return ""
}

type CasePriority int

const (
	PriorityLowest  CasePriority = 1
	PriorityLow     CasePriority = 2
	PriorityNormal  CasePriority = 3
	PriorityHigh    CasePriority = 4
	PriorityHighest CasePriority = 5
)

func (p CasePriority) Title() string {
	switch p {
	case PriorityLowest:
		return "Lowest"
	case PriorityLow:
		return "Low"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	case PriorityHighest:
		return "Highest"
	}
	return ""
}

// Case is the aggregate root of the casework workflow. State, Number,
// OpenTime and CloseTime are only ever written by the lifecycle engine;
// everything else is regular content.
type Case struct {
	ID       uint                        `gorm:"primaryKey" json:"id"`
	UUID     uuid.UUID                   `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Number   string                      `gorm:"size:10;not null;default:'-'" json:"number"`
	State    CaseState                   `gorm:"size:20;not null;default:'draft'" json:"state"`
	Priority CasePriority                `gorm:"not null;default:3" json:"priority"`
	TypeID   uint                        `gorm:"not null" json:"type_id"`
	Type     *CaseType                   `gorm:"constraint:OnDelete:CASCADE" json:"type,omitempty"`
	RegionID uint                        `gorm:"not null" json:"region_id"`
	Region   *Region                     `gorm:"constraint:OnDelete:CASCADE" json:"region,omitempty"`
	Title    string                      `gorm:"size:255;not null" json:"title"`
	Content  string                      `gorm:"type:text;not null" json:"content"`
	Location string                      `gorm:"size:255" json:"location"`
	Username string                      `gorm:"size:50;not null" json:"username"`
	Mobile   string                      `gorm:"size:10" json:"mobile"`
	Email    string                      `gorm:"size:100" json:"email"`
	Address  string                      `gorm:"size:255" json:"address"`
	Note     string                      `gorm:"type:text" json:"note"`
	Tags     datatypes.JSONSlice[string] `json:"tags"`

	DisapproveInfo string `gorm:"type:text" json:"disapprove_info"`

	OpenTime   *time.Time `json:"open_time"`
	CloseTime  *time.Time `json:"close_time"`
	CreateTime time.Time  `gorm:"autoCreateTime" json:"create_time"`
	UpdateTime time.Time  `gorm:"autoUpdateTime" json:"update_time"`

	// Version guards against concurrent mutations of the same case.
	Version uint `gorm:"not null;default:1" json:"-"`
}

func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.State == "" {
		c.State = CaseStateDraft
	}
	if c.Priority == 0 {
		c.Priority = PriorityNormal
	}
	if c.Number == "" {
		c.Number = "-"
	}
	if c.Version == 0 {
		c.Version = 1
	}
	return nil
}

// NumberFromID derives the human-readable case number from the storage id,
// zero-padded to six digits. Stable once assigned.
func NumberFromID(id uint) string {
	return fmt.Sprintf("%06d", id)
}

// CaseSnapshot is the canonical set of fields tracked by the history log.
type CaseSnapshot struct {
	State    CaseState    `gorm:"size:20;not null" json:"state"`
	Priority CasePriority `gorm:"not null" json:"priority"`
	Title    string       `gorm:"size:255;not null" json:"title"`
	TypeID   uint         `gorm:"not null" json:"type_id"`
	RegionID uint         `gorm:"not null" json:"region_id"`
	Content  string       `gorm:"type:text;not null" json:"content"`
	Location string       `gorm:"size:255" json:"location"`
	Username string       `gorm:"size:50;not null" json:"username"`
	Mobile   string       `gorm:"size:10" json:"mobile"`
	Email    string       `gorm:"size:100" json:"email"`
	Address  string       `gorm:"size:255" json:"address"`
}

// Snapshot captures the tracked field values of the case.
func (c *Case) Snapshot() CaseSnapshot {
	return CaseSnapshot{
		State:    c.State,
		Priority: c.Priority,
		Title:    c.Title,
		TypeID:   c.TypeID,
		RegionID: c.RegionID,
		Content:  c.Content,
		Location: c.Location,
		Username: c.Username,
		Mobile:   c.Mobile,
		Email:    c.Email,
		Address:  c.Address,
	}
}
