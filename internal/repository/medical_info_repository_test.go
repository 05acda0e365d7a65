package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

func strPtr(s string) *string { return &s }

func TestMedicalInfoSingleton(t *testing.T) {
	db := testDB(t)
	userID := seedUser(t, db)
	repo := NewMedicalInfoRepo(db)
	ctx := context.Background()

	first := &model.MedicalInfo{UserID: userID, BloodType: strPtr("O+")}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)

	// The unique key on user_id makes a second create a conflict, not a
	// second row.
	second := &model.MedicalInfo{UserID: userID, BloodType: strPtr("A-")}
	assert.ErrorIs(t, repo.Create(ctx, second), ErrConflict)

	got, err := repo.GetByUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got.BloodType)
	assert.Equal(t, "O+", *got.BloodType)
}

func TestMedicalInfoUpsert(t *testing.T) {
	db := testDB(t)
	userID := seedUser(t, db)
	repo := NewMedicalInfoRepo(db)
	ctx := context.Background()

	first := &model.MedicalInfo{UserID: userID, BloodType: strPtr("O+"), Allergies: strPtr("penicillin")}
	inserted, err := repo.Upsert(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	// The second upsert replaces rather than conflicts, and its values win.
	second := &model.MedicalInfo{UserID: userID, BloodType: strPtr("A-")}
	inserted, err = repo.Upsert(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetByUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got.BloodType)
	assert.Equal(t, "A-", *got.BloodType)
	assert.Nil(t, got.Allergies)
}

func TestMedicalInfoDeleteMissing(t *testing.T) {
	db := testDB(t)
	userID := seedUser(t, db)
	repo := NewMedicalInfoRepo(db)

	assert.ErrorIs(t, repo.Delete(context.Background(), userID), ErrMedicalInfoNotFound)
}
