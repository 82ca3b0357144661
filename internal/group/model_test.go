package group_test

import (
	"testing"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/group"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroup(t *testing.T) {
	g, err := group.NewGroup("  Los Pibes ", 4)
	require.NoError(t, err)
	assert.Equal(t, "Los Pibes", g.Name)
	assert.Equal(t, int64(4), g.CommissionID)

	_, err = group.NewGroup("", 0)
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "commissionId")
}

func TestCheckEnrollment(t *testing.T) {
	t.Run("AllEnrolled", func(t *testing.T) {
		assert.NoError(t, group.CheckEnrollment(1, []int64{2, 3}, []int64{1, 2, 3}))
	})

	t.Run("NoneRequested", func(t *testing.T) {
		assert.NoError(t, group.CheckEnrollment(1, nil, nil))
	})

	t.Run("MissingAreSortedAndDeduplicated", func(t *testing.T) {
		err := group.CheckEnrollment(7, []int64{9, 2, 9, 5}, []int64{2})

		var notEnrolled *apperr.NotEnrolledError
		require.ErrorAs(t, err, &notEnrolled)
		assert.Equal(t, int64(7), notEnrolled.CommissionID)
		assert.Equal(t, []int64{5, 9}, notEnrolled.StudentIDs)
		assert.ErrorIs(t, err, apperr.ErrStudentsNotEnrolled)
	})
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, group.Unique([]int64{3, 1, 3, 2, 1}))
	assert.Empty(t, group.Unique(nil))
}
