package services

import (
	"context"
	"errors"

	"github.com/civictech-tw/casework/db"
	"github.com/civictech-tw/casework/models"
	"github.com/civictech-tw/casework/repositories"
	"gorm.io/gorm"
)

var ErrTaxonomyNotFound = errors.New("case type or region not found")

// Taxonomy lookups used to populate submission forms. These tables carry no
// behavior; creation exists for seeding only.

func CreateCaseType(ctx context.Context, name string) (models.CaseType, error) {
	t := models.CaseType{Name: name}
	err := repositories.CreateCaseType(db.DB.WithContext(ctx), &t)
	return t, err
}

func GetCaseType(ctx context.Context, id uint) (models.CaseType, error) {
	t, err := repositories.GetCaseTypeByID(db.DB.WithContext(ctx), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CaseType{}, ErrTaxonomyNotFound
	}
	return t, err
}

func ListCaseTypes(ctx context.Context) ([]models.CaseType, error) {
	return repositories.ListCaseTypes(db.DB.WithContext(ctx))
}

func CreateRegion(ctx context.Context, name string) (models.Region, error) {
	r := models.Region{Name: name}
	err := repositories.CreateRegion(db.DB.WithContext(ctx), &r)
	return r, err
}

func GetRegion(ctx context.Context, id uint) (models.Region, error) {
	r, err := repositories.GetRegionByID(db.DB.WithContext(ctx), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Region{}, ErrTaxonomyNotFound
	}
	return r, err
}

func ListRegions(ctx context.Context) ([]models.Region, error) {
	return repositories.ListRegions(db.DB.WithContext(ctx))
}
