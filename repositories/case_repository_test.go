package repositories

import (
	"testing"

	"github.com/civictech-tw/casework/internal/testutils"
	"github.com/civictech-tw/casework/workflow"
	"github.com/stretchr/testify/require"
)

func TestSaveCaseBumpsVersion(t *testing.T) {
	tx := testutils.SetupSQLiteDB(t)
	c := seedCase(t, tx)
	require.EqualValues(t, 1, c.Version)

	c.Title = "pothole on main street, updated"
	require.NoError(t, SaveCase(tx, &c))
	require.EqualValues(t, 2, c.Version)

	reloaded, err := GetCaseByID(tx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "pothole on main street, updated", reloaded.Title)
	require.EqualValues(t, 2, reloaded.Version)
}

func TestSaveCaseDetectsConcurrentMutation(t *testing.T) {
	tx := testutils.SetupSQLiteDB(t)
	c := seedCase(t, tx)

	// Two readers load the same version; the second write loses.
	stale, err := GetCaseByID(tx, c.ID)
	require.NoError(t, err)

	c.Title = "first writer"
	require.NoError(t, SaveCase(tx, &c))

	stale.Title = "second writer"
	err = SaveCase(tx, &stale)
	require.ErrorIs(t, err, workflow.ErrStorageConflict)

	reloaded, err := GetCaseByID(tx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "first writer", reloaded.Title)
}

func TestSaveCasePersistsZeroValues(t *testing.T) {
	tx := testutils.SetupSQLiteDB(t)
	c := seedCase(t, tx)

	c.Location = "somewhere"
	require.NoError(t, SaveCase(tx, &c))

	c.Location = ""
	require.NoError(t, SaveCase(tx, &c))

	reloaded, err := GetCaseByID(tx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "", reloaded.Location)
}
