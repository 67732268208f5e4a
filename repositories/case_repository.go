package repositories

import (
	"github.com/civictech-tw/casework/models"
	"github.com/civictech-tw/casework/workflow"
	"gorm.io/gorm"
)

func CreateCase(tx *gorm.DB, c *models.Case) error {
	return tx.Create(c).Error
}

func GetCaseByID(tx *gorm.DB, id uint) (models.Case, error) {
	var c models.Case
	err := tx.First(&c, id).Error
	return c, err
}

func GetCaseByUUID(tx *gorm.DB, u string) (models.Case, error) {
	var c models.Case
	err := tx.Where("uuid = ?", u).First(&c).Error
	return c, err
}

func ListCases(tx *gorm.DB) ([]models.Case, error) {
	var cases []models.Case
	err := tx.Order("id").Find(&cases).Error
	return cases, err
}

func ListCasesByState(tx *gorm.DB, state models.CaseState) ([]models.Case, error) {
	var cases []models.Case
	err := tx.Where("state = ?", state).Order("id").Find(&cases).Error
	return cases, err
}

// SaveCase persists all mutable fields of an already-created case under an
// optimistic version check. On a lost race it reports
// workflow.ErrStorageConflict and leaves the in-memory version untouched.
func SaveCase(tx *gorm.DB, c *models.Case) error {
	current := c.Version
	c.Version = current + 1

	res := tx.Model(c).
		Where("version = ?", current).
		Select("*").
		Omit("id", "uuid", "create_time").
		Updates(c)
	if res.Error != nil {
		c.Version = current
		return res.Error
	}
	if res.RowsAffected == 0 {
		c.Version = current
		return workflow.ErrStorageConflict
	}
	return nil
}

func DeleteCase(tx *gorm.DB, id uint) error {
	return tx.Delete(&models.Case{}, id).Error
}
