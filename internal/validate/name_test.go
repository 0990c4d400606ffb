package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectNameValid(t *testing.T) {
	slug, err := ProjectName("Customer-Support-Bot")
	require.NoError(t, err)
	assert.Equal(t, "customer-support-bot", slug)
}

func TestProjectNameTooShort(t *testing.T) {
	for _, name := range []string{"", "a"} {
		_, err := ProjectName(name)
		require.Error(t, err)

		var fieldErr *Error
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "name", fieldErr.Field)
		assert.Equal(t, TooShort, fieldErr.Code)
	}
}

func TestProjectNameTooLong(t *testing.T) {
	name := ""
	for i := 0; i < 61; i++ {
		name += "x"
	}

	_, err := ProjectName(name)
	var fieldErr *Error
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, TooLong, fieldErr.Code)
}

func TestProjectNameBoundaryLengths(t *testing.T) {
	_, err := ProjectName("ab")
	assert.NoError(t, err)

	name := ""
	for i := 0; i < 60; i++ {
		name += "x"
	}
	_, err = ProjectName(name)
	assert.NoError(t, err)
}

func TestProjectNameInvalidCharacters(t *testing.T) {
	for _, name := range []string{"my project", "proj!", "a_b", "héllo", "dots.are.out"} {
		_, err := ProjectName(name)
		require.Error(t, err, "expected rejection for %q", name)

		var fieldErr *Error
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, InvalidCharacters, fieldErr.Code)
	}
}

func TestProjectNameFirstFailureWins(t *testing.T) {
	// One char and invalid: length check runs first.
	_, err := ProjectName("!")
	var fieldErr *Error
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, TooShort, fieldErr.Code)

	// Same for a single multi-byte char; length counts characters, not
	// bytes.
	_, err = ProjectName("é")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, TooShort, fieldErr.Code)
}

func TestProjectNameLengthCountsRunes(t *testing.T) {
	name := ""
	for i := 0; i < 60; i++ {
		name += "é"
	}

	// 60 characters is within the limit even at 120 bytes; the characters
	// themselves are still rejected.
	_, err := ProjectName(name)
	var fieldErr *Error
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, InvalidCharacters, fieldErr.Code)

	_, err = ProjectName(name + "é")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, TooLong, fieldErr.Code)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":       "hello-world",
		"  spaced  out  ":   "spaced-out",
		"Already-Slugged":   "already-slugged",
		"MiXeD123":          "mixed123",
		"--edge--case--":    "edge-case",
		"many!!!separators": "many-separators",
		"":                  "",
		"---":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
