package repositories

import (
	"github.com/civictech-tw/casework/models"
	"gorm.io/gorm"
)

func CreateCaseType(tx *gorm.DB, t *models.CaseType) error {
	return tx.Create(t).Error
}

func GetCaseTypeByID(tx *gorm.DB, id uint) (models.CaseType, error) {
	var t models.CaseType
	err := tx.First(&t, id).Error
	return t, err
}

func ListCaseTypes(tx *gorm.DB) ([]models.CaseType, error) {
	var types []models.CaseType
	err := tx.Order("id").Find(&types).Error
	return types, err
}

func CreateRegion(tx *gorm.DB, r *models.Region) error {
	return tx.Create(r).Error
}

func GetRegionByID(tx *gorm.DB, id uint) (models.Region, error) {
	var r models.Region
	err := tx.First(&r, id).Error
	return r, err
}

func ListRegions(tx *gorm.DB) ([]models.Region, error) {
	var regions []models.Region
	err := tx.Order("id").Find(&regions).Error
	return regions, err
}
