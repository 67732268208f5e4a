package repositories

import (
	"errors"

	"github.com/civictech-tw/casework/models"
	"gorm.io/gorm"
)

// GetOrCreateHistory appends a history row unless one already matches the
// snapshot exactly. The match uses a column map so zero values (empty
// location, lowest priority, ...) participate instead of being skipped the
// way struct conditions would.
func GetOrCreateHistory(tx *gorm.DB, caseID uint, snap models.CaseSnapshot, editorID *uint) (models.CaseHistory, bool, error) {
	conds := map[string]interface{}{
		"case_id":   caseID,
		"state":     snap.State,
		"priority":  snap.Priority,
		"title":     snap.Title,
		"type_id":   snap.TypeID,
		"region_id": snap.RegionID,
		"content":   snap.Content,
		"location":  snap.Location,
		"username":  snap.Username,
		"mobile":    snap.Mobile,
		"email":     snap.Email,
		"address":   snap.Address,
	}

	var history models.CaseHistory
	err := tx.Where(conds).First(&history).Error
	if err == nil {
		return history, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CaseHistory{}, false, err
	}

	history = models.CaseHistory{
		CaseID:       caseID,
		CaseSnapshot: snap,
		EditorID:     editorID,
	}
	if err := tx.Create(&history).Error; err != nil {
		return models.CaseHistory{}, false, err
	}
	return history, true, nil
}

// EarliestHistory returns the oldest history row of a case, or nil if the
// case has none yet.
func EarliestHistory(tx *gorm.DB, caseID uint) (*models.CaseHistory, error) {
	var history models.CaseHistory
	err := tx.Where("case_id = ?", caseID).
		Order("create_time, id").
		First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func CountHistories(tx *gorm.DB, caseID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.CaseHistory{}).Where("case_id = ?", caseID).Count(&count).Error
	return count, err
}

func ListHistories(tx *gorm.DB, caseID uint) ([]models.CaseHistory, error) {
	var histories []models.CaseHistory
	err := tx.Where("case_id = ?", caseID).Order("create_time, id").Find(&histories).Error
	return histories, err
}
