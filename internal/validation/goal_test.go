package validation

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func field(t *testing.T, err error) string {
	t.Helper()
	var verr *Error
	require.ErrorAs(t, err, &verr)
	return verr.Field
}

func TestValidateGoalName(t *testing.T) {
	name, err := ValidateGoalName("  Read 12 books ")
	require.NoError(t, err)
	assert.Equal(t, "Read 12 books", name)

	_, err = ValidateGoalName("   ")
	assert.Equal(t, "name", field(t, err))

	_, err = ValidateGoalName(strings.Repeat("я", 201))
	assert.Equal(t, "name", field(t, err))
}

func TestValidateUnit(t *testing.T) {
	unit, err := ValidateUnit(" km ")
	require.NoError(t, err)
	assert.Equal(t, "km", unit)

	_, err = ValidateUnit("")
	assert.Equal(t, "unit", field(t, err))
}

func TestValidateTarget(t *testing.T) {
	assert.NoError(t, ValidateTarget(0.5))
	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.Equal(t, "target", field(t, ValidateTarget(bad)))
	}
}

func TestValidateBaseline(t *testing.T) {
	assert.NoError(t, ValidateBaseline(0))
	assert.NoError(t, ValidateBaseline(12))
	assert.Equal(t, "baseline", field(t, ValidateBaseline(-0.1)))
}

func TestValidateColor(t *testing.T) {
	c, err := ValidateColor("#8b5cf6")
	require.NoError(t, err)
	assert.Equal(t, "#8B5CF6", c)

	_, err = ValidateColor("8b5cf6")
	assert.Equal(t, "color", field(t, err))
}

func TestValidateDeadline(t *testing.T) {
	now := time.Date(2025, 1, 5, 22, 0, 0, 0, time.UTC)
	s := func(v string) *string { return &v }

	d, err := ValidateDeadline(s("2025-01-05"), now)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-05", *d, "today is allowed")

	d, err = ValidateDeadline(s(" "), now)
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ValidateDeadline(nil, now)
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ValidateDeadline(s("2025-01-04"), now)
	assert.Equal(t, "deadline", field(t, err))

	_, err = ValidateDeadline(s("05/01/2025"), now)
	assert.Equal(t, "deadline", field(t, err))
}

func TestValidateNote(t *testing.T) {
	note, err := ValidateNote("  ran in the rain ")
	require.NoError(t, err)
	assert.Equal(t, "ran in the rain", note)

	_, err = ValidateNote(strings.Repeat("x", 1001))
	assert.Equal(t, "note", field(t, err))
}

func TestValidateUserFields(t *testing.T) {
	assert.NoError(t, ValidateEmail("ann@example.com"))
	assert.Equal(t, "email", field(t, ValidateEmail("not-an-email")))
	assert.NoError(t, ValidatePassword("correct horse battery"))
	assert.Equal(t, "password", field(t, ValidatePassword("short")))
	assert.Equal(t, "password", field(t, ValidatePassword("mypassword1")))
	assert.NoError(t, ValidateName("Ann"))
	assert.Equal(t, "name", field(t, ValidateName(" ")))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "unit: unit is required", NewError("unit", "unit is required").Error())
	assert.Equal(t, "bad input", NewError("", "bad input").Error())
}
