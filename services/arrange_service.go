package services

import (
	"context"
	"errors"
	"time"

	"github.com/civictech-tw/casework/db"
	"github.com/civictech-tw/casework/dto"
	"github.com/civictech-tw/casework/models"
	"github.com/civictech-tw/casework/repositories"
	"github.com/civictech-tw/casework/workflow"
	"gorm.io/gorm"
)

var ErrArrangeNotFound = errors.New("arrange not found")

// ArrangeService manages the work items recorded against a case. Publishing
// every work item is what unlocks the close transition.
type ArrangeService struct {
	perms PermissionChecker
}

func NewArrangeService(perms PermissionChecker) *ArrangeService {
	return &ArrangeService{perms: perms}
}

func (s *ArrangeService) CreateArrange(ctx context.Context, actor *models.User, input dto.CreateArrangeDTO) (models.Arrange, error) {
	tx := db.DB.WithContext(ctx)

	c, err := repositories.GetCaseByID(tx, input.CaseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Arrange{}, ErrCaseNotFound
	}
	if err != nil {
		return models.Arrange{}, err
	}
	if !s.perms.CanModifyCase(actor, &c) {
		return models.Arrange{}, workflow.ErrNotAuthorized
	}

	a := models.Arrange{
		CaseID:       c.ID,
		Title:        input.Title,
		Content:      input.Content,
		EmailContent: input.EmailContent,
		ArrangeTime:  time.Now(),
	}
	if err := repositories.CreateArrange(tx, &a); err != nil {
		return models.Arrange{}, err
	}
	return a, nil
}

func (s *ArrangeService) PublishArrange(ctx context.Context, actor *models.User, id uint) (models.Arrange, error) {
	tx := db.DB.WithContext(ctx)

	a, err := repositories.GetArrangeByID(tx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Arrange{}, ErrArrangeNotFound
	}
	if err != nil {
		return models.Arrange{}, err
	}

	c, err := repositories.GetCaseByID(tx, a.CaseID)
	if err != nil {
		return models.Arrange{}, err
	}
	if !s.perms.CanModifyCase(actor, &c) {
		return models.Arrange{}, workflow.ErrNotAuthorized
	}

	a.Published = true
	if err := repositories.UpdateArrange(tx, &a); err != nil {
		return models.Arrange{}, err
	}
	return a, nil
}

func (s *ArrangeService) ListArranges(ctx context.Context, caseID uint) ([]models.Arrange, error) {
	return repositories.ListArrangesByCase(db.DB.WithContext(ctx), caseID)
}
