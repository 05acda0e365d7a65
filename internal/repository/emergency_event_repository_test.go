package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

func TestEventLifecycle(t *testing.T) {
	db := testDB(t)
	userID := seedUser(t, db)
	repo := NewEmergencyEventRepo(db)
	ctx := context.Background()

	// Status is filled in when the caller leaves it empty.
	e := &model.EmergencyEvent{UserID: userID, EventType: "medical"}
	require.NoError(t, repo.Create(ctx, e))
	assert.Equal(t, model.EventStatusActive, e.Status)

	status := model.EventStatusResolved
	updated, err := repo.Update(ctx, e.ID, userID, EmergencyEventPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusResolved, updated.Status)

	got, err := repo.GetByIDAndUser(ctx, e.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusResolved, got.Status)
}

func TestEventListPagination(t *testing.T) {
	db := testDB(t)
	userID := seedUser(t, db)
	repo := NewEmergencyEventRepo(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		e := &model.EmergencyEvent{UserID: userID, EventType: fmt.Sprintf("type-%d", i)}
		require.NoError(t, repo.Create(ctx, e))
	}
	resolved := &model.EmergencyEvent{UserID: userID, EventType: "closed-out", Status: model.EventStatusResolved}
	require.NoError(t, repo.Create(ctx, resolved))

	items, total, err := repo.ListByUser(ctx, userID, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	assert.Len(t, items, 2)

	items, total, err = repo.ListByUser(ctx, userID, "", 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	assert.Len(t, items, 2)

	// Past the last page the total still reports the full count.
	items, total, err = repo.ListByUser(ctx, userID, "", 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	assert.Empty(t, items)

	// The status filter narrows both the page and the total.
	items, total, err = repo.ListByUser(ctx, userID, model.EventStatusResolved, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "closed-out", items[0].EventType)
}
