package dto

type CreateCaseDTO struct {
	TypeID   uint     `json:"type_id" binding:"required"`
	RegionID uint     `json:"region_id" binding:"required"`
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Username string   `json:"username" binding:"required"`
	Location string   `json:"location,omitempty"`
	Mobile   string   `json:"mobile,omitempty"`
	Email    string   `json:"email,omitempty"`
	Address  string   `json:"address,omitempty"`
	Note     string   `json:"note,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Priority int      `json:"priority,omitempty"`
}

// UpdateCaseDTO edits case content. State, number and the open/close
// timestamps are deliberately absent: those only move through the guarded
// transitions.
type UpdateCaseDTO struct {
	TypeID         *uint     `json:"type_id,omitempty"`
	RegionID       *uint     `json:"region_id,omitempty"`
	Title          *string   `json:"title,omitempty"`
	Content        *string   `json:"content,omitempty"`
	Username       *string   `json:"username,omitempty"`
	Location       *string   `json:"location,omitempty"`
	Mobile         *string   `json:"mobile,omitempty"`
	Email          *string   `json:"email,omitempty"`
	Address        *string   `json:"address,omitempty"`
	Note           *string   `json:"note,omitempty"`
	Tags           *[]string `json:"tags,omitempty"`
	Priority       *int      `json:"priority,omitempty"`
	DisapproveInfo *string   `json:"disapprove_info,omitempty"`
}
