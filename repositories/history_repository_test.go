package repositories

import (
	"testing"

	"github.com/civictech-tw/casework/internal/testutils"
	"github.com/civictech-tw/casework/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCase(t *testing.T, tx *gorm.DB) models.Case {
	t.Helper()

	caseType := models.CaseType{Name: "roads"}
	require.NoError(t, CreateCaseType(tx, &caseType))
	region := models.Region{Name: "north"}
	require.NoError(t, CreateRegion(tx, &region))

	c := models.Case{
		TypeID:   caseType.ID,
		RegionID: region.ID,
		Title:    "pothole on main street",
		Content:  "deep pothole near the intersection",
		Username: "lin",
	}
	require.NoError(t, CreateCase(tx, &c))
	return c
}

func TestGetOrCreateHistoryDeduplicates(t *testing.T) {
	tx := testutils.SetupSQLiteDB(t)
	c := seedCase(t, tx)

	first, created, err := GetOrCreateHistory(tx, c.ID, c.Snapshot(), nil)
	require.NoError(t, err)
	require.True(t, created)

	again, created, err := GetOrCreateHistory(tx, c.ID, c.Snapshot(), nil)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, again.ID)

	count, err := CountHistories(tx, c.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestGetOrCreateHistoryMatchesZeroValues(t *testing.T) {
	tx := testutils.SetupSQLiteDB(t)
	c := seedCase(t, tx)

	_, created, err := GetOrCreateHistory(tx, c.ID, c.Snapshot(), nil)
	require.NoError(t, err)
	require.True(t, created)

	// Setting a previously empty field must produce a new row; the empty
	// value was part of the first row's identity.
	c.Location = "main street 42"
	_, created, err = GetOrCreateHistory(tx, c.ID, c.Snapshot(), nil)
	require.NoError(t, err)
	require.True(t, created)

	// And clearing it again matches the original row, not the second.
	c.Location = ""
	row, created, err := GetOrCreateHistory(tx, c.ID, c.Snapshot(), nil)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "", row.Location)
}

func TestGetOrCreateHistoryAttributesEditorOnlyOnCreation(t *testing.T) {
	tx := testutils.SetupSQLiteDB(t)
	c := seedCase(t, tx)

	editor := models.User{Username: "admin", Password: "x", Role: models.UserRoleAdmin}
	require.NoError(t, CreateUser(tx, &editor))

	row, created, err := GetOrCreateHistory(tx, c.ID, c.Snapshot(), &editor.ID)
	require.NoError(t, err)
	require.True(t, created)
	require.NotNil(t, row.EditorID)
	require.Equal(t, editor.ID, *row.EditorID)

	other := models.User{Username: "staff", Password: "x"}
	require.NoError(t, CreateUser(tx, &other))

	row, created, err = GetOrCreateHistory(tx, c.ID, c.Snapshot(), &other.ID)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, editor.ID, *row.EditorID)
}

func TestEarliestHistory(t *testing.T) {
	tx := testutils.SetupSQLiteDB(t)
	c := seedCase(t, tx)

	earliest, err := EarliestHistory(tx, c.ID)
	require.NoError(t, err)
	require.Nil(t, earliest)

	_, _, err = GetOrCreateHistory(tx, c.ID, c.Snapshot(), nil)
	require.NoError(t, err)

	c.Title = "pothole fixed partially"
	_, _, err = GetOrCreateHistory(tx, c.ID, c.Snapshot(), nil)
	require.NoError(t, err)

	earliest, err = EarliestHistory(tx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, earliest)
	require.Equal(t, "pothole on main street", earliest.Title)
}
