package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Validate())
	assert.Len(t, s, 77)
	booked, available := s.Counts()
	assert.Equal(t, 0, booked)
	assert.Equal(t, 77, available)
}

func TestReset_IsIdempotent(t *testing.T) {
	s := allBooked()
	once := Reset(s)
	twice := Reset(once)

	assert.Equal(t, NewStore(), once)
	assert.Equal(t, once, twice)
	// input left alone
	booked, _ := s.Counts()
	assert.Equal(t, TotalSeats, booked)
}

func TestFromStatuses(t *testing.T) {
	raw := make([]string, TotalSeats)
	for i := range raw {
		raw[i] = "available"
	}
	raw[3] = "booked"

	s, err := FromStatuses(raw)
	require.NoError(t, err)
	assert.Equal(t, Booked, s[3])

	_, err = FromStatuses(raw[:10])
	assert.ErrorIs(t, err, ErrInvalidStore)

	raw[5] = "reserved"
	_, err = FromStatuses(raw)
	assert.ErrorIs(t, err, ErrInvalidStore)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Store{Available}.Validate(), ErrInvalidStore)

	s := NewStore()
	s[0] = Status("held")
	assert.ErrorIs(t, s.Validate(), ErrInvalidStore)
}

func TestNumbering(t *testing.T) {
	assert.Equal(t, 1, NumberOf(0))
	assert.Equal(t, 0, IndexOf(1))
	assert.Equal(t, []int{1, 8, 77}, Numbers([]int{0, 7, 76}))
	assert.True(t, ValidNumber(77))
	assert.False(t, ValidNumber(0))
	assert.False(t, ValidNumber(78))
	assert.Equal(t, []int{70, 71, 72, 73, 74, 75, 76}, Row(10))
	assert.Nil(t, Row(11))
	assert.Equal(t, 1, rowOf(7))
}
