package services

import (
	"context"
	"testing"

	"github.com/civictech-tw/casework/dto"
	"github.com/civictech-tw/casework/internal/testutils"
	"github.com/civictech-tw/casework/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserHashesPassword(t *testing.T) {
	testutils.SetupSQLiteDB(t)

	email := "wang@example.com"
	user, err := CreateUser(context.Background(), dto.CreateUserDTO{
		Username: "wang",
		Password: "correct horse battery staple",
		Email:    &email,
	})
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", user.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("correct horse battery staple")))
}

func TestCreateUserDefaultsToStaffRole(t *testing.T) {
	testutils.SetupSQLiteDB(t)

	user, err := CreateUser(context.Background(), dto.CreateUserDTO{
		Username: "wang",
		Password: "x",
	})
	require.NoError(t, err)
	require.Equal(t, models.UserRoleStaff, user.Role)

	admin, err := CreateUser(context.Background(), dto.CreateUserDTO{
		Username: "boss",
		Password: "x",
		Role:     string(models.UserRoleAdmin),
	})
	require.NoError(t, err)
	require.Equal(t, models.UserRoleAdmin, admin.Role)
}

func TestGetUserByUsername(t *testing.T) {
	testutils.SetupSQLiteDB(t)

	_, err := CreateUser(context.Background(), dto.CreateUserDTO{Username: "wang", Password: "x"})
	require.NoError(t, err)

	found, err := GetUserByUsername(context.Background(), "wang")
	require.NoError(t, err)
	require.Equal(t, "wang", found.Username)

	_, err = GetUserByUsername(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)
}
