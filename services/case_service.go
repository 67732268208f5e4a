package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/civictech-tw/casework/db"
	"github.com/civictech-tw/casework/dto"
	"github.com/civictech-tw/casework/files"
	"github.com/civictech-tw/casework/models"
	"github.com/civictech-tw/casework/notify"
	"github.com/civictech-tw/casework/repositories"
	"github.com/civictech-tw/casework/workflow"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCaseNotFound    = errors.New("case not found")
	ErrInvalidPriority = errors.New("priority must be between 1 and 5")
)

// Poker wakes the notification dispatcher after a commit.
type Poker interface {
	Poke()
}

// CaseService owns the case lifecycle: the first-save protocol, content
// edits with history snapshots, and the guarded state transitions. Every
// mutation commits atomically with its history and staged notifications;
// collaborators (file storage, mail, chat) are only touched after commit.
type CaseService struct {
	log     *zap.Logger
	perms   PermissionChecker
	stager  files.Stager
	poker   Poker
	machine *workflow.Machine
}

func NewCaseService(log *zap.Logger, perms PermissionChecker, stager files.Stager, poker Poker) *CaseService {
	s := &CaseService{
		log:    log,
		perms:  perms,
		stager: stager,
		poker:  poker,
	}

	permission := func(actor *models.User, c *models.Case) bool {
		return s.perms.CanModifyCase(actor, c)
	}

	s.machine = workflow.NewMachine([]workflow.Transition{
		{
			Op:         workflow.OpDisapprove,
			Sources:    []models.CaseState{models.CaseStateDraft},
			Target:     models.CaseStateDisapproved,
			Hint:       "disapprove info must be filled in before the case can be rejected",
			Guard:      guardDisapprove,
			Effect:     s.effectDisapprove,
			Permission: permission,
		},
		{
			Op:         workflow.OpArrange,
			Sources:    []models.CaseState{models.CaseStateDraft},
			Target:     models.CaseStateArranged,
			Hint:       "the case must have been edited at least once before it can be arranged",
			Guard:      guardEdited,
			Effect:     s.effectArrange,
			Permission: permission,
		},
		{
			Op:         workflow.OpClose,
			Sources:    []models.CaseState{models.CaseStateArranged},
			Target:     models.CaseStateClosed,
			Hint:       "every work item must be published before the case can be closed",
			Guard:      guardClose,
			Effect:     s.effectClose,
			Permission: permission,
		},
		{
			Op:         workflow.OpRearrange,
			Sources:    []models.CaseState{models.CaseStateDisapproved, models.CaseStateClosed},
			Target:     models.CaseStateArranged,
			Hint:       "the case must have been edited at least once before it can be arranged",
			Guard:      guardEdited,
			Effect:     s.effectRearrange,
			Permission: permission,
		},
	})

	return s
}

// CreateCase runs the first-save protocol: persist, derive the case number,
// snapshot history, and stage the received-confirmation mail plus the team
// alert. After commit, files staged under the case uuid are moved into case
// storage. Actor may be nil for citizen self-submission.
func (s *CaseService) CreateCase(ctx context.Context, actor *models.User, input dto.CreateCaseDTO) (models.Case, error) {
	if input.Priority < 0 || input.Priority > int(models.PriorityHighest) {
		return models.Case{}, ErrInvalidPriority
	}

	c := models.Case{
		TypeID:   input.TypeID,
		RegionID: input.RegionID,
		Title:    input.Title,
		Content:  input.Content,
		Username: input.Username,
		Location: input.Location,
		Mobile:   input.Mobile,
		Email:    input.Email,
		Address:  input.Address,
		Note:     input.Note,
		Tags:     datatypes.JSONSlice[string](input.Tags),
		Priority: models.CasePriority(input.Priority),
	}

	err := db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repositories.CreateCase(tx, &c); err != nil {
			return err
		}

		c.Number = models.NumberFromID(c.ID)
		if err := tx.Model(&c).Update("number", c.Number).Error; err != nil {
			return err
		}

		if err := s.recordHistory(tx, &c, actor); err != nil {
			return err
		}
		if err := s.enqueueConfirmEmail(tx, &c, notify.TemplateCaseReceived); err != nil {
			return err
		}
		return s.enqueueTeamAlert(tx, &c)
	})
	if err != nil {
		return models.Case{}, err
	}

	if s.stager != nil {
		if moved, err := s.stager.Migrate(ctx, c.UUID, &c); err != nil {
			// Staged files stay put; the migration can be re-run. The
			// case itself is already committed.
			s.log.Warn("staged file migration failed",
				zap.String("case", c.Number),
				zap.Error(err),
			)
		} else if moved > 0 {
			s.log.Info("staged files migrated",
				zap.String("case", c.Number),
				zap.Int("count", moved),
			)
		}
	}

	s.wake()
	return c, nil
}

// UpdateCase edits case content under the optimistic version check and
// appends a history snapshot when the tracked fields actually changed.
func (s *CaseService) UpdateCase(ctx context.Context, actor *models.User, id uint, input dto.UpdateCaseDTO) (models.Case, error) {
	if input.Priority != nil && (*input.Priority < int(models.PriorityLowest) || *input.Priority > int(models.PriorityHighest)) {
		return models.Case{}, ErrInvalidPriority
	}

	var c models.Case
	err := db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		c, err = repositories.GetCaseByID(tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCaseNotFound
		}
		if err != nil {
			return err
		}
		if !s.perms.CanModifyCase(actor, &c) {
			return workflow.ErrNotAuthorized
		}

		applyCaseUpdate(&c, input)

		if err := repositories.SaveCase(tx, &c); err != nil {
			return err
		}
		return s.recordHistory(tx, &c, actor)
	})
	if err != nil {
		return models.Case{}, err
	}
	return c, nil
}

// BulkUpdateCases applies the same edit to several cases, each through the
// guarded single-case path. There is no bypassing bulk write.
func (s *CaseService) BulkUpdateCases(ctx context.Context, actor *models.User, ids []uint, input dto.UpdateCaseDTO) ([]models.Case, error) {
	updated := make([]models.Case, 0, len(ids))
	for _, id := range ids {
		c, err := s.UpdateCase(ctx, actor, id, input)
		if err != nil {
			return updated, fmt.Errorf("case %d: %w", id, err)
		}
		updated = append(updated, c)
	}
	return updated, nil
}

func (s *CaseService) GetCase(ctx context.Context, id uint) (models.Case, error) {
	c, err := repositories.GetCaseByID(db.DB.WithContext(ctx), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Case{}, ErrCaseNotFound
	}
	return c, err
}

func (s *CaseService) ListCases(ctx context.Context) ([]models.Case, error) {
	return repositories.ListCases(db.DB.WithContext(ctx))
}

// FirstHistory returns the earliest history row: the canonical record of
// what the citizen originally submitted.
func (s *CaseService) FirstHistory(ctx context.Context, id uint) (*models.CaseHistory, error) {
	return repositories.EarliestHistory(db.DB.WithContext(ctx), id)
}

func (s *CaseService) Disapprove(ctx context.Context, actor *models.User, id uint) (models.Case, error) {
	return s.transition(ctx, actor, id, workflow.OpDisapprove)
}

func (s *CaseService) Arrange(ctx context.Context, actor *models.User, id uint) (models.Case, error) {
	return s.transition(ctx, actor, id, workflow.OpArrange)
}

func (s *CaseService) Close(ctx context.Context, actor *models.User, id uint) (models.Case, error) {
	return s.transition(ctx, actor, id, workflow.OpClose)
}

func (s *CaseService) Rearrange(ctx context.Context, actor *models.User, id uint) (models.Case, error) {
	return s.transition(ctx, actor, id, workflow.OpRearrange)
}

// AvailableOperations reports, for UI hinting, which transitions are legal
// on the case right now and why the others are not.
func (s *CaseService) AvailableOperations(ctx context.Context, actor *models.User, id uint) ([]workflow.Status, error) {
	tx := db.DB.WithContext(ctx)
	c, err := repositories.GetCaseByID(tx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.machine.Describe(tx, &c, actor)
}

func (s *CaseService) transition(ctx context.Context, actor *models.User, id uint, op workflow.Operation) (models.Case, error) {
	var c models.Case
	err := db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		c, err = repositories.GetCaseByID(tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCaseNotFound
		}
		if err != nil {
			return err
		}

		if err := s.machine.Apply(tx, &c, actor, op); err != nil {
			return err
		}
		return repositories.SaveCase(tx, &c)
	})
	if err != nil {
		return models.Case{}, err
	}

	s.wake()
	return c, nil
}

func (s *CaseService) wake() {
	if s.poker != nil {
		s.poker.Poke()
	}
}

func applyCaseUpdate(c *models.Case, input dto.UpdateCaseDTO) {
	if input.TypeID != nil {
		c.TypeID = *input.TypeID
	}
	if input.RegionID != nil {
		c.RegionID = *input.RegionID
	}
	if input.Title != nil {
		c.Title = *input.Title
	}
	if input.Content != nil {
		c.Content = *input.Content
	}
	if input.Username != nil {
		c.Username = *input.Username
	}
	if input.Location != nil {
		c.Location = *input.Location
	}
	if input.Mobile != nil {
		c.Mobile = *input.Mobile
	}
	if input.Email != nil {
		c.Email = *input.Email
	}
	if input.Address != nil {
		c.Address = *input.Address
	}
	if input.Note != nil {
		c.Note = *input.Note
	}
	if input.Tags != nil {
		c.Tags = datatypes.JSONSlice[string](*input.Tags)
	}
	if input.Priority != nil {
		c.Priority = models.CasePriority(*input.Priority)
	}
	if input.DisapproveInfo != nil {
		c.DisapproveInfo = *input.DisapproveInfo
	}
}

// recordHistory appends a snapshot unless an identical one already exists.
// Editor attribution is only written when the row is new.
func (s *CaseService) recordHistory(tx *gorm.DB, c *models.Case, actor *models.User) error {
	var editorID *uint
	if actor != nil {
		editorID = &actor.ID
	}

	_, created, err := repositories.GetOrCreateHistory(tx, c.ID, c.Snapshot(), editorID)
	if err != nil {
		return fmt.Errorf("record case history: %w", err)
	}
	if created {
		s.log.Debug("case history recorded", zap.String("case", c.Number))
	}
	return nil
}

////////////////////////////////////////////////////////////////////////
// Transition guards

func guardDisapprove(tx *gorm.DB, c *models.Case) (bool, error) {
	return strings.TrimSpace(c.DisapproveInfo) != "", nil
}

func guardEdited(tx *gorm.DB, c *models.Case) (bool, error) {
	count, err := repositories.CountHistories(tx, c.ID)
	if err != nil {
		return false, err
	}
	return count > 1, nil
}

func guardClose(tx *gorm.DB, c *models.Case) (bool, error) {
	arranges, err := repositories.ListArrangesByCase(tx, c.ID)
	if err != nil {
		return false, err
	}
	if len(arranges) == 0 {
		return false, nil
	}
	for _, a := range arranges {
		if !a.Published {
			return false, nil
		}
	}
	return true, nil
}

////////////////////////////////////////////////////////////////////////
// Transition side effects. Each runs while the case still holds its source
// state; the machine moves it to the target afterwards.

func (s *CaseService) effectDisapprove(tx *gorm.DB, c *models.Case, actor *models.User) error {
	first, err := repositories.EarliestHistory(tx, c.ID)
	if err != nil {
		return err
	}
	username, title := c.Username, c.Title
	if first != nil {
		username, title = first.Username, first.Title
	}

	data := map[string]interface{}{
		"number":   c.Number,
		"username": username,
		"title":    title,
		"datetime": notify.FormatShortDateTime(c.CreateTime),
		"content":  c.DisapproveInfo,
	}
	if err := s.enqueueEmail(tx, c, notify.TemplateCaseDisapproved, data); err != nil {
		return err
	}

	now := time.Now()
	c.CloseTime = &now
	return nil
}

func (s *CaseService) effectArrange(tx *gorm.DB, c *models.Case, actor *models.User) error {
	if err := s.enqueueConfirmEmail(tx, c, notify.TemplateCaseArranged); err != nil {
		return err
	}
	now := time.Now()
	c.OpenTime = &now
	return nil
}

func (s *CaseService) effectClose(tx *gorm.DB, c *models.Case, actor *models.User) error {
	first, err := repositories.EarliestHistory(tx, c.ID)
	if err != nil {
		return err
	}
	username, title := c.Username, c.Title
	if first != nil {
		username, title = first.Username, first.Title
	}

	arranges, err := repositories.ListArrangesByCase(tx, c.ID)
	if err != nil {
		return err
	}
	items := make([]map[string]interface{}, 0, len(arranges))
	for _, a := range arranges {
		items = append(items, map[string]interface{}{
			"title":    a.Title,
			"datetime": notify.FormatShortDateTime(a.ArrangeTime),
			"content":  a.EmailContent,
		})
	}

	data := map[string]interface{}{
		"number":     c.Number,
		"username":   username,
		"case_title": title,
		"arranges":   items,
	}
	if err := s.enqueueEmail(tx, c, notify.TemplateCaseClosed, data); err != nil {
		return err
	}

	now := time.Now()
	c.CloseTime = &now
	return nil
}

func (s *CaseService) effectRearrange(tx *gorm.DB, c *models.Case, actor *models.User) error {
	if err := s.enqueueConfirmEmail(tx, c, notify.TemplateCaseArranged); err != nil {
		return err
	}

	now := time.Now()
	if c.State == models.CaseStateDisapproved {
		c.DisapproveInfo += fmt.Sprintf("(set back to in progress on %s)", notify.FormatShortDateTime(now))
	}
	c.OpenTime = &now
	return nil
}

////////////////////////////////////////////////////////////////////////
// Notification staging

// enqueueConfirmEmail stages the confirmation mail built from the earliest
// history snapshot, falling back to the case's own values when no history
// exists yet (i.e. during the first save).
func (s *CaseService) enqueueConfirmEmail(tx *gorm.DB, c *models.Case, template string) error {
	first, err := repositories.EarliestHistory(tx, c.ID)
	if err != nil {
		return err
	}
	username, title, content, location := c.Username, c.Title, c.Content, c.Location
	if first != nil {
		username, title, content, location = first.Username, first.Title, first.Content, first.Location
	}

	data := map[string]interface{}{
		"number":   c.Number,
		"username": username,
		"title":    title,
		"datetime": notify.FormatShortDateTime(c.CreateTime),
		"content":  content,
		"location": location,
	}
	return s.enqueueEmail(tx, c, template, data)
}

func (s *CaseService) enqueueEmail(tx *gorm.DB, c *models.Case, template string, data map[string]interface{}) error {
	if c.Email == "" {
		s.log.Debug("case has no email address, skipping mail",
			zap.String("case", c.Number),
			zap.String("template", template),
		)
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}
	return repositories.EnqueueOutbox(tx, &models.Outbox{
		CaseID:    c.ID,
		Kind:      models.OutboxEmail,
		Template:  template,
		Recipient: c.Email,
		Payload:   payload,
	})
}

func (s *CaseService) enqueueTeamAlert(tx *gorm.DB, c *models.Case) error {
	caseType, err := repositories.GetCaseTypeByID(tx, c.TypeID)
	if err != nil {
		return err
	}
	region, err := repositories.GetRegionByID(tx, c.RegionID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(notify.TeamAlert{
		CaseID:     c.ID,
		Number:     c.Number,
		Title:      c.Title,
		TypeName:   caseType.Name,
		RegionName: region.Name,
		Username:   c.Username,
		CreatedAt:  notify.FormatShortDateTime(c.CreateTime),
	})
	if err != nil {
		return fmt.Errorf("encode team alert payload: %w", err)
	}
	return repositories.EnqueueOutbox(tx, &models.Outbox{
		CaseID:  c.ID,
		Kind:    models.OutboxChat,
		Payload: payload,
	})
}
