package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_Validate(t *testing.T) {
	assert.NoError(t, ParticipantPath("u1").Validate())
	assert.NoError(t, NominationPath("n1").Validate())
	assert.NoError(t, RankingPath("u1").Validate())
	assert.NoError(t, IsStartedPath().Validate())
	assert.NoError(t, ResultsPath().Validate())

	assert.ErrorIs(t, ParticipantPath("").Validate(), ErrInvalidPath)
	assert.ErrorIs(t, Path{Field: FieldResults, Key: "x"}.Validate(), ErrInvalidPath)
	assert.ErrorIs(t, Path{Field: "adminID"}.Validate(), ErrInvalidPath)
}

func TestPath_Segments(t *testing.T) {
	assert.Equal(t, []string{"nominations", "n1"}, NominationPath("n1").Segments())
	assert.Equal(t, []string{"isStarted"}, IsStartedPath().Segments())
	assert.Equal(t, "rankings.u1", RankingPath("u1").String())
	assert.True(t, RankingPath("u1").Removable())
	assert.False(t, ResultsPath().Removable())
}
