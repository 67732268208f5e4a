package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/civictech-tw/casework/db"
	"github.com/civictech-tw/casework/dto"
	"github.com/civictech-tw/casework/internal/testutils"
	"github.com/civictech-tw/casework/mocks"
	"github.com/civictech-tw/casework/models"
	"github.com/civictech-tw/casework/notify"
	"github.com/civictech-tw/casework/repositories"
	"github.com/civictech-tw/casework/workflow"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc      *CaseService
	arranges *ArrangeService
	stager   *mocks.MockStager
	staff    *models.User
	viewer   *models.User
	typeID   uint
	regionID uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tx := testutils.SetupSQLiteDB(t)

	ctrl := gomock.NewController(t)
	stager := mocks.NewMockStager(ctrl)

	caseType := models.CaseType{Name: "roads"}
	require.NoError(t, repositories.CreateCaseType(tx, &caseType))
	region := models.Region{Name: "north district"}
	require.NoError(t, repositories.CreateRegion(tx, &region))

	staff := models.User{Username: "staff", Password: "x", Role: models.UserRoleStaff}
	require.NoError(t, repositories.CreateUser(tx, &staff))
	viewer := models.User{Username: "viewer", Password: "x", Role: models.UserRoleViewer}
	require.NoError(t, repositories.CreateUser(tx, &viewer))

	perms := RolePermissionChecker{}
	return &fixture{
		svc:      NewCaseService(zap.NewNop(), perms, stager, nil),
		arranges: NewArrangeService(perms),
		stager:   stager,
		staff:    &staff,
		viewer:   &viewer,
		typeID:   caseType.ID,
		regionID: region.ID,
	}
}

func (f *fixture) createDTO() dto.CreateCaseDTO {
	return dto.CreateCaseDTO{
		TypeID:   f.typeID,
		RegionID: f.regionID,
		Title:    "broken streetlight",
		Content:  "the light on 5th avenue has been out for a week",
		Username: "chen",
		Email:    "chen@example.com",
		Location: "5th avenue",
		Tags:     []string{"lighting"},
	}
}

func (f *fixture) createCase(t *testing.T) models.Case {
	t.Helper()
	f.stager.EXPECT().Migrate(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
	c, err := f.svc.CreateCase(context.Background(), nil, f.createDTO())
	require.NoError(t, err)
	return c
}

// editedCase returns a case with two history snapshots, the minimum for the
// arrange guard.
func (f *fixture) editedCase(t *testing.T) models.Case {
	t.Helper()
	c := f.createCase(t)
	title := "broken streetlight on 5th avenue"
	c, err := f.svc.UpdateCase(context.Background(), f.staff, c.ID, dto.UpdateCaseDTO{Title: &title})
	require.NoError(t, err)
	return c
}

func historyCount(t *testing.T, caseID uint) int64 {
	t.Helper()
	count, err := repositories.CountHistories(db.DB, caseID)
	require.NoError(t, err)
	return count
}

func outboxRows(t *testing.T, caseID uint) []models.Outbox {
	t.Helper()
	rows, err := repositories.ListOutboxByCase(db.DB, caseID)
	require.NoError(t, err)
	return rows
}

func TestCreateCaseRunsFirstSaveProtocol(t *testing.T) {
	f := newFixture(t)

	f.stager.EXPECT().
		Migrate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, key uuid.UUID, c *models.Case) (int, error) {
			require.Equal(t, c.UUID, key)
			return 2, nil
		})

	c, err := f.svc.CreateCase(context.Background(), nil, f.createDTO())
	require.NoError(t, err)

	require.Equal(t, models.CaseStateDraft, c.State)
	require.Equal(t, models.NumberFromID(c.ID), c.Number)
	require.EqualValues(t, 1, historyCount(t, c.ID))

	rows := outboxRows(t, c.ID)
	require.Len(t, rows, 2)
	require.Equal(t, models.OutboxEmail, rows[0].Kind)
	require.Equal(t, notify.TemplateCaseReceived, rows[0].Template)
	require.Equal(t, "chen@example.com", rows[0].Recipient)
	require.Equal(t, models.OutboxChat, rows[1].Kind)

	var alert notify.TeamAlert
	require.NoError(t, json.Unmarshal(rows[1].Payload, &alert))
	require.Equal(t, c.Number, alert.Number)
	require.Equal(t, "roads", alert.TypeName)
	require.Equal(t, "north district", alert.RegionName)
}

func TestSecondSaveDoesNotRepeatFirstSaveProtocol(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)
	number := c.Number

	// No further Migrate expectation: a second save must not re-migrate.
	title := "updated title"
	updated, err := f.svc.UpdateCase(context.Background(), f.staff, c.ID, dto.UpdateCaseDTO{Title: &title})
	require.NoError(t, err)

	require.Equal(t, number, updated.Number)
	require.Len(t, outboxRows(t, c.ID), 2)
	require.EqualValues(t, 2, historyCount(t, c.ID))
}

func TestUpdateCaseDeduplicatesHistory(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	// An edit that changes nothing tracked leaves history alone.
	note := "internal note"
	_, err := f.svc.UpdateCase(context.Background(), f.staff, c.ID, dto.UpdateCaseDTO{Note: &note})
	require.NoError(t, err)
	require.EqualValues(t, 1, historyCount(t, c.ID))

	title := "changed"
	_, err = f.svc.UpdateCase(context.Background(), f.staff, c.ID, dto.UpdateCaseDTO{Title: &title})
	require.NoError(t, err)
	require.EqualValues(t, 2, historyCount(t, c.ID))
}

func TestUpdateCaseAttributesEditor(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	title := "attributed edit"
	_, err := f.svc.UpdateCase(context.Background(), f.staff, c.ID, dto.UpdateCaseDTO{Title: &title})
	require.NoError(t, err)

	histories, err := repositories.ListHistories(db.DB, c.ID)
	require.NoError(t, err)
	require.Len(t, histories, 2)
	require.Nil(t, histories[0].EditorID)
	require.NotNil(t, histories[1].EditorID)
	require.Equal(t, f.staff.ID, *histories[1].EditorID)
}

func TestUpdateCaseRequiresPermission(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	title := "should not apply"
	_, err := f.svc.UpdateCase(context.Background(), f.viewer, c.ID, dto.UpdateCaseDTO{Title: &title})
	require.ErrorIs(t, err, workflow.ErrNotAuthorized)
	require.EqualValues(t, 1, historyCount(t, c.ID))
}

func TestDisapproveGuardRequiresInfo(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	_, err := f.svc.Disapprove(context.Background(), f.staff, c.ID)

	var guard *workflow.GuardError
	require.ErrorAs(t, err, &guard)
	require.Equal(t, workflow.OpDisapprove, guard.Op)

	reloaded, err := f.svc.GetCase(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, models.CaseStateDraft, reloaded.State)
	require.Nil(t, reloaded.CloseTime)
	require.Len(t, outboxRows(t, c.ID), 2)
}

func TestDisapproveGuardRejectsWhitespaceInfo(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	info := "   "
	_, err := f.svc.UpdateCase(context.Background(), f.staff, c.ID, dto.UpdateCaseDTO{DisapproveInfo: &info})
	require.NoError(t, err)

	_, err = f.svc.Disapprove(context.Background(), f.staff, c.ID)

	var guard *workflow.GuardError
	require.ErrorAs(t, err, &guard)
	require.Equal(t, workflow.OpDisapprove, guard.Op)
}

func TestDisapproveTransition(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	info := "outside our jurisdiction"
	_, err := f.svc.UpdateCase(context.Background(), f.staff, c.ID, dto.UpdateCaseDTO{DisapproveInfo: &info})
	require.NoError(t, err)
	// DisapproveInfo is not a tracked field, so no new history row.
	require.EqualValues(t, 1, historyCount(t, c.ID))

	closed, err := f.svc.Disapprove(context.Background(), f.staff, c.ID)
	require.NoError(t, err)
	require.Equal(t, models.CaseStateDisapproved, closed.State)
	require.NotNil(t, closed.CloseTime)

	rows := outboxRows(t, c.ID)
	require.Len(t, rows, 3)
	last := rows[len(rows)-1]
	require.Equal(t, notify.TemplateCaseDisapproved, last.Template)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(last.Payload, &data))
	require.Equal(t, closed.Number, data["number"])
	require.Equal(t, "chen", data["username"])
	require.Equal(t, info, data["content"])
}

func TestArrangeGuardRequiresEdit(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	_, err := f.svc.Arrange(context.Background(), f.staff, c.ID)

	var guard *workflow.GuardError
	require.ErrorAs(t, err, &guard)

	reloaded, err := f.svc.GetCase(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, models.CaseStateDraft, reloaded.State)
	require.Nil(t, reloaded.OpenTime)
}

func TestArrangeTransition(t *testing.T) {
	f := newFixture(t)
	c := f.editedCase(t)

	arranged, err := f.svc.Arrange(context.Background(), f.staff, c.ID)
	require.NoError(t, err)
	require.Equal(t, models.CaseStateArranged, arranged.State)
	require.NotNil(t, arranged.OpenTime)

	// The transition itself does not alter tracked content, so no new
	// history row appears.
	require.EqualValues(t, 2, historyCount(t, c.ID))

	rows := outboxRows(t, c.ID)
	last := rows[len(rows)-1]
	require.Equal(t, notify.TemplateCaseArranged, last.Template)

	// The confirmation mail carries the original submission, not the
	// edited title.
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(last.Payload, &data))
	require.Equal(t, "broken streetlight", data["title"])
}

func TestTransitionsRequirePermission(t *testing.T) {
	f := newFixture(t)
	c := f.editedCase(t)

	_, err := f.svc.Arrange(context.Background(), f.viewer, c.ID)
	require.ErrorIs(t, err, workflow.ErrNotAuthorized)

	reloaded, err := f.svc.GetCase(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, models.CaseStateDraft, reloaded.State)
}

func TestCloseGuardNeedsPublishedWorkItems(t *testing.T) {
	f := newFixture(t)
	c := f.editedCase(t)
	_, err := f.svc.Arrange(context.Background(), f.staff, c.ID)
	require.NoError(t, err)

	// No work items at all.
	_, err = f.svc.Close(context.Background(), f.staff, c.ID)
	var guard *workflow.GuardError
	require.ErrorAs(t, err, &guard)
	require.Equal(t, workflow.OpClose, guard.Op)

	// One published, one not: still blocked.
	a1, err := f.arranges.CreateArrange(context.Background(), f.staff, dto.CreateArrangeDTO{
		CaseID: c.ID, Title: "inspected the site", EmailContent: "our team inspected the light",
	})
	require.NoError(t, err)
	_, err = f.arranges.CreateArrange(context.Background(), f.staff, dto.CreateArrangeDTO{
		CaseID: c.ID, Title: "ordered replacement parts", EmailContent: "parts are on the way",
	})
	require.NoError(t, err)
	_, err = f.arranges.PublishArrange(context.Background(), f.staff, a1.ID)
	require.NoError(t, err)

	_, err = f.svc.Close(context.Background(), f.staff, c.ID)
	require.ErrorAs(t, err, &guard)

	reloaded, err := f.svc.GetCase(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, models.CaseStateArranged, reloaded.State)
	require.Nil(t, reloaded.CloseTime)
}

func TestCloseTransitionListsWorkItemsInOrder(t *testing.T) {
	f := newFixture(t)
	c := f.editedCase(t)
	_, err := f.svc.Arrange(context.Background(), f.staff, c.ID)
	require.NoError(t, err)

	titles := []string{"inspected the site", "ordered replacement parts", "light repaired"}
	for _, title := range titles {
		a, err := f.arranges.CreateArrange(context.Background(), f.staff, dto.CreateArrangeDTO{
			CaseID: c.ID, Title: title, EmailContent: title + " (details)",
		})
		require.NoError(t, err)
		_, err = f.arranges.PublishArrange(context.Background(), f.staff, a.ID)
		require.NoError(t, err)
	}

	closed, err := f.svc.Close(context.Background(), f.staff, c.ID)
	require.NoError(t, err)
	require.Equal(t, models.CaseStateClosed, closed.State)
	require.NotNil(t, closed.CloseTime)

	rows := outboxRows(t, c.ID)
	last := rows[len(rows)-1]
	require.Equal(t, notify.TemplateCaseClosed, last.Template)

	var data struct {
		Arranges []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"arranges"`
	}
	require.NoError(t, json.Unmarshal(last.Payload, &data))
	require.Len(t, data.Arranges, len(titles))
	for i, title := range titles {
		require.Equal(t, title, data.Arranges[i].Title)
		require.Equal(t, title+" (details)", data.Arranges[i].Content)
	}
}

func TestRearrangeFromDisapprovedAppendsReopenNote(t *testing.T) {
	f := newFixture(t)
	c := f.editedCase(t)

	info := "duplicate of another case"
	_, err := f.svc.UpdateCase(context.Background(), f.staff, c.ID, dto.UpdateCaseDTO{DisapproveInfo: &info})
	require.NoError(t, err)
	_, err = f.svc.Disapprove(context.Background(), f.staff, c.ID)
	require.NoError(t, err)

	reopened, err := f.svc.Rearrange(context.Background(), f.staff, c.ID)
	require.NoError(t, err)
	require.Equal(t, models.CaseStateArranged, reopened.State)
	require.NotNil(t, reopened.OpenTime)
	require.Contains(t, reopened.DisapproveInfo, info)
	require.Contains(t, reopened.DisapproveInfo, "set back to in progress on")
}

func TestRearrangeFromClosedKeepsDisapproveInfo(t *testing.T) {
	f := newFixture(t)
	c := f.editedCase(t)
	_, err := f.svc.Arrange(context.Background(), f.staff, c.ID)
	require.NoError(t, err)

	a, err := f.arranges.CreateArrange(context.Background(), f.staff, dto.CreateArrangeDTO{
		CaseID: c.ID, Title: "done", EmailContent: "done",
	})
	require.NoError(t, err)
	_, err = f.arranges.PublishArrange(context.Background(), f.staff, a.ID)
	require.NoError(t, err)
	_, err = f.svc.Close(context.Background(), f.staff, c.ID)
	require.NoError(t, err)

	reopened, err := f.svc.Rearrange(context.Background(), f.staff, c.ID)
	require.NoError(t, err)
	require.Equal(t, models.CaseStateArranged, reopened.State)
	require.Equal(t, "", reopened.DisapproveInfo)
}

func TestCloseFromDraftIsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	_, err := f.svc.Close(context.Background(), f.staff, c.ID)

	var invalid *workflow.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, models.CaseStateDraft, invalid.From)
}

func TestAvailableOperationsReportsReasons(t *testing.T) {
	f := newFixture(t)
	c := f.createCase(t)

	statuses, err := f.svc.AvailableOperations(context.Background(), f.staff, c.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byOp := map[workflow.Operation]workflow.Status{}
	for _, s := range statuses {
		byOp[s.Op] = s
	}
	require.False(t, byOp[workflow.OpDisapprove].Allowed)
	require.NotEmpty(t, byOp[workflow.OpDisapprove].Reason)
	require.False(t, byOp[workflow.OpArrange].Allowed)
	require.NotEmpty(t, byOp[workflow.OpArrange].Reason)
	require.True(t, byOp[workflow.OpArrange].Authorized)

	viewerStatuses, err := f.svc.AvailableOperations(context.Background(), f.viewer, c.ID)
	require.NoError(t, err)
	for _, s := range viewerStatuses {
		require.False(t, s.Authorized)
	}
}

func TestBulkUpdateGoesThroughGuardedPath(t *testing.T) {
	f := newFixture(t)
	c1 := f.createCase(t)
	c2 := f.createCase(t)

	priority := int(models.PriorityHigh)
	updated, err := f.svc.BulkUpdateCases(context.Background(), f.staff, []uint{c1.ID, c2.ID}, dto.UpdateCaseDTO{Priority: &priority})
	require.NoError(t, err)
	require.Len(t, updated, 2)

	// Each case got its own history snapshot for the priority change.
	require.EqualValues(t, 2, historyCount(t, c1.ID))
	require.EqualValues(t, 2, historyCount(t, c2.ID))
}

func TestCreateCaseRejectsBadPriority(t *testing.T) {
	f := newFixture(t)
	input := f.createDTO()
	input.Priority = 9
	_, err := f.svc.CreateCase(context.Background(), nil, input)
	require.ErrorIs(t, err, ErrInvalidPriority)
}

func TestOpenAndCloseTimesAreTransitionOwned(t *testing.T) {
	f := newFixture(t)
	c := f.editedCase(t)

	before := time.Now().Add(-time.Second)
	arranged, err := f.svc.Arrange(context.Background(), f.staff, c.ID)
	require.NoError(t, err)
	require.True(t, arranged.OpenTime.After(before))
	require.Nil(t, arranged.CloseTime)
}
