package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"2099-12-25", "2099-12-25"},
		{"25-12-2099", "2099-12-25"},
		{"25/12/2099", "2099-12-25"},
		{"  2099-01-10  ", "2099-01-10"},
		// Month-first only resolves that way when day-first is impossible.
		{"12/25/2099", "2099-12-25"},
		{"1/2/2099", "2099-01-02"},
		{"2099-01-10T09:30:00Z", "2099-01-10"},
		{"2099-1-2", "2099-01-02"},
	}
	for _, tc := range cases {
		got, err := NormalizeDate(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestNormalizeDate_AmbiguousSlashIsDayFirst(t *testing.T) {
	got, err := NormalizeDate("01/02/2099")
	require.NoError(t, err)
	assert.Equal(t, "2099-02-01", got)
}

func TestNormalizeDate_Unparseable(t *testing.T) {
	for _, input := range []string{"", "   ", "not-a-date", "2099-13-40", "99/99/9999", "tomorrow"} {
		_, err := NormalizeDate(input)
		assert.ErrorIs(t, err, ErrUnrecognizedDate, "input %q", input)
	}
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	inputs := []string{"2099-12-25", "25-12-2099", "25/12/2099", "12/25/2099", "2099-01-10T09:30:00Z"}
	for _, input := range inputs {
		once, err := NormalizeDate(input)
		require.NoError(t, err)
		twice, err := NormalizeDate(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "input %q", input)
	}
}

func TestIsPastDate(t *testing.T) {
	assert.True(t, IsPastDate("2020-01-01"))
	assert.False(t, IsPastDate("2099-01-10"))
	assert.False(t, IsPastDate(Today()), "today is not in the past")

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(DateLayout)
	assert.True(t, IsPastDate(yesterday))
}

func TestToday_CanonicalForm(t *testing.T) {
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, Today())
}
