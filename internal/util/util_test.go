package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewULID(t *testing.T) {
	a, b := NewULID(), NewULID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.True(t, IsULID(a))
	assert.False(t, IsULID("not-a-ulid"))
}

func TestNullHelpers(t *testing.T) {
	assert.False(t, StringToNullString("").Valid)
	assert.Equal(t, "x", StringToNullString("x").String)
	assert.False(t, TimeToNullTime(time.Time{}).Valid)

	n := 3
	assert.Equal(t, int64(3), IntPtrToNullInt64(&n).Int64)
	assert.False(t, IntPtrToNullInt64(nil).Valid)
	assert.Equal(t, &n, NullInt64ToIntPtr(IntPtrToNullInt64(&n)))
	assert.Nil(t, NullInt64ToIntPtr(IntPtrToNullInt64(nil)))

	assert.Equal(t, 1, BoolToNumber(true))
	assert.Equal(t, 0, BoolToNumber(false))
}
