package repositories

import (
	"github.com/civictech-tw/casework/models"
	"gorm.io/gorm"
)

func CreateUser(tx *gorm.DB, u *models.User) error {
	return tx.Create(u).Error
}

func GetUserByID(tx *gorm.DB, id uint) (models.User, error) {
	var u models.User
	err := tx.First(&u, id).Error
	return u, err
}

func GetUserByUsername(tx *gorm.DB, username string) (models.User, error) {
	var u models.User
	err := tx.Where("username = ?", username).First(&u).Error
	return u, err
}
