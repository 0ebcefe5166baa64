package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodFilter_Range(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	now := time.Date(2025, 3, 14, 22, 30, 0, 0, loc)

	from, to, err := PeriodFilter{Mode: FilterAll}.Range(now, loc)
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	from, to, err = PeriodFilter{Mode: FilterDay, Date: "2025-03-01"}.Range(now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, loc), *from)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, loc), *to)

	from, to, err = PeriodFilter{Mode: FilterMonth}.Range(now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, loc), *from)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, loc), *to)

	from, to, err = PeriodFilter{Mode: FilterMonth, Date: "2024-12"}.Range(now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, loc), *to)
	assert.Equal(t, 2024, from.Year())
}

func TestPeriodFilter_Invalid(t *testing.T) {
	_, _, err := PeriodFilter{Mode: FilterDay, Date: "14/03/2025"}.Range(time.Now(), time.UTC)
	assert.Error(t, err)

	_, _, err = PeriodFilter{Mode: "week"}.Range(time.Now(), time.UTC)
	assert.Error(t, err)
}

func TestPeriodFilter_Key(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, loc)

	from, _, err := PeriodFilter{}.Range(now, loc)
	require.NoError(t, err)
	assert.Equal(t, "all", PeriodFilter{}.Key(from))

	f := PeriodFilter{Mode: FilterDay, Date: "2025-03-01"}
	from, _, err = f.Range(now, loc)
	require.NoError(t, err)
	assert.Equal(t, "day:2025-03-01", f.Key(from))
}

func TestPeriodFilter_KeyRollsOverWithoutDate(t *testing.T) {
	loc := time.UTC
	today := PeriodFilter{Mode: FilterDay}

	from, _, err := today.Range(time.Date(2025, 3, 14, 23, 59, 0, 0, loc), loc)
	require.NoError(t, err)
	before := today.Key(from)

	from, _, err = today.Range(time.Date(2025, 3, 15, 0, 1, 0, 0, loc), loc)
	require.NoError(t, err)
	after := today.Key(from)

	assert.Equal(t, "day:2025-03-14", before)
	assert.Equal(t, "day:2025-03-15", after)

	month := PeriodFilter{Mode: FilterMonth}
	from, _, err = month.Range(time.Date(2025, 4, 1, 0, 0, 0, 0, loc), loc)
	require.NoError(t, err)
	assert.Equal(t, "month:2025-04-01", month.Key(from))
}
