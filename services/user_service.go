package services

import (
	"context"
	"errors"

	"github.com/civictech-tw/casework/db"
	"github.com/civictech-tw/casework/dto"
	"github.com/civictech-tw/casework/models"
	"github.com/civictech-tw/casework/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

func CreateUser(ctx context.Context, input dto.CreateUserDTO) (models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username: input.Username,
		Password: string(hashed),
		Email:    input.Email,
		FullName: input.FullName,
		Role:     models.UserRoleStaff,
	}
	if input.Role != "" {
		user.Role = models.UserRole(input.Role)
	}

	if err := repositories.CreateUser(db.DB.WithContext(ctx), &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func GetUser(ctx context.Context, id uint) (models.User, error) {
	user, err := repositories.GetUserByID(db.DB.WithContext(ctx), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	user, err := repositories.GetUserByUsername(db.DB.WithContext(ctx), username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}
