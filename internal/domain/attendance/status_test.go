package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Next_CyclesWithPeriodThree(t *testing.T) {
	assert.Equal(t, StatusPresent, StatusAbsent.Next())
	assert.Equal(t, StatusExcused, StatusPresent.Next())
	assert.Equal(t, StatusAbsent, StatusExcused.Next())

	// Three applications return to the start.
	s := StatusAbsent
	for i := 0; i < 3; i++ {
		s = s.Next()
	}
	assert.Equal(t, StatusAbsent, s)
}

func TestStatus_Flags(t *testing.T) {
	assert.True(t, StatusPresent.Present())
	assert.False(t, StatusPresent.Excused())
	assert.True(t, StatusExcused.Excused())
	assert.False(t, StatusAbsent.Present())
	assert.False(t, StatusAbsent.Excused())
}

func TestFromFlags_PresentWins(t *testing.T) {
	assert.Equal(t, StatusPresent, FromFlags(true, false))
	// The invalid stored combination collapses to present.
	assert.Equal(t, StatusPresent, FromFlags(true, true))
	assert.Equal(t, StatusExcused, FromFlags(false, true))
	assert.Equal(t, StatusAbsent, FromFlags(false, false))
}
