package repositories

import (
	"github.com/civictech-tw/casework/models"
	"gorm.io/gorm"
)

func CreateArrange(tx *gorm.DB, a *models.Arrange) error {
	return tx.Create(a).Error
}

func GetArrangeByID(tx *gorm.DB, id uint) (models.Arrange, error) {
	var a models.Arrange
	err := tx.First(&a, id).Error
	return a, err
}

func UpdateArrange(tx *gorm.DB, a *models.Arrange) error {
	return tx.Save(a).Error
}

// ListArrangesByCase returns the case's work items in creation order, which
// is also the order the closing mail lists them in.
func ListArrangesByCase(tx *gorm.DB, caseID uint) ([]models.Arrange, error) {
	var arranges []models.Arrange
	err := tx.Where("case_id = ?", caseID).Order("id").Find(&arranges).Error
	return arranges, err
}
