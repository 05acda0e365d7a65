package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalUnmarshal(t *testing.T) {
	type patch struct {
		Notes Optional[string] `json:"notes"`
	}

	var omitted patch
	require.NoError(t, json.Unmarshal([]byte(`{}`), &omitted))
	assert.False(t, omitted.Notes.Set)

	var null patch
	require.NoError(t, json.Unmarshal([]byte(`{"notes":null}`), &null))
	assert.True(t, null.Notes.Set)
	assert.Nil(t, null.Notes.Value)

	var set patch
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"peanut allergy"}`), &set))
	assert.True(t, set.Notes.Set)
	require.NotNil(t, set.Notes.Value)
	assert.Equal(t, "peanut allergy", *set.Notes.Value)
}

func TestOptionalUnmarshalTypeMismatch(t *testing.T) {
	var p struct {
		Notes Optional[string] `json:"notes"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"notes":42}`), &p))
}

func TestValidEventStatus(t *testing.T) {
	assert.True(t, ValidEventStatus(EventStatusActive))
	assert.True(t, ValidEventStatus(EventStatusResolved))
	assert.True(t, ValidEventStatus(EventStatusCancelled))
	assert.False(t, ValidEventStatus("open"))
	assert.False(t, ValidEventStatus(""))
	assert.False(t, ValidEventStatus("Active"))
}
