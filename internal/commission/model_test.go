package commission_test

import (
	"testing"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/commission"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/matter"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/student"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommission(t *testing.T) {
	pds := &matter.Matter{ID: 1, Name: "PDS"}

	t.Run("LowerBoundYear", func(t *testing.T) {
		c, err := commission.NewCommission(2000, commission.FirstPeriod, pds)
		require.NoError(t, err)
		assert.Equal(t, 2000, c.Year)
		assert.Equal(t, int64(1), c.MatterID)
	})

	t.Run("YearBefore2000", func(t *testing.T) {
		_, err := commission.NewCommission(1999, commission.FirstPeriod, pds)
		var verr *apperr.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "year")
	})

	t.Run("UnknownPeriod", func(t *testing.T) {
		_, err := commission.NewCommission(2023, commission.Period("THIRD_PERIOD"), pds)
		var verr *apperr.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "fourMonthPeriod")
	})

	t.Run("UnsavedMatter", func(t *testing.T) {
		_, err := commission.NewCommission(2023, commission.SecondPeriod, &matter.Matter{Name: "PDS"})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = commission.NewCommission(2023, commission.SecondPeriod, nil)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestCommissionSetters(t *testing.T) {
	c, err := commission.NewCommission(2022, commission.FirstPeriod, &matter.Matter{ID: 1, Name: "PDS"})
	require.NoError(t, err)

	assert.Error(t, c.SetYear(1999))
	assert.Equal(t, 2022, c.Year)
	require.NoError(t, c.SetYear(2024))

	assert.Error(t, c.SetFourMonthPeriod(""))
	require.NoError(t, c.SetFourMonthPeriod(commission.SecondPeriod))
	assert.Equal(t, commission.SecondPeriod, c.FourMonthPeriod)

	require.NoError(t, c.SetMatter(&matter.Matter{ID: 2, Name: "Redes"}))
	assert.Equal(t, int64(2), c.MatterID)
}

func TestIsEnrolled(t *testing.T) {
	c := &commission.Commission{Students: []student.Student{{ID: 1}, {ID: 3}}}
	assert.True(t, c.IsEnrolled(3))
	assert.False(t, c.IsEnrolled(2))
}
