package cli

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	got, err := GetSimpleText(reader("  hello  \n"), "Say something", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	got, err := GetSimpleText(reader("no newline"), "Say something", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestGetInt(t *testing.T) {
	got, err := GetInt(reader("7\n"), "Holes", 1, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestGetInt_EmptyUsesDefault(t *testing.T) {
	got, err := GetInt(reader("\n"), "Holes", 3, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestGetInt_Garbage(t *testing.T) {
	_, err := GetInt(reader("many\n"), "Holes", 1, io.Discard)
	require.Error(t, err)
}

func TestGetIDList(t *testing.T) {
	got, err := GetIDList(reader("r1, r2 r3\n"), "IDs", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3"}, got)
}

func TestGetIDList_Empty(t *testing.T) {
	got, err := GetIDList(reader("\n"), "IDs", io.Discard)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseLocation(t *testing.T) {
	loc, err := parseLocation("4.61 -74.08 12.5")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, 4.61, loc.Lat)
	assert.Equal(t, -74.08, loc.Lng)
	assert.Equal(t, 12.5, loc.Acc)
}

func TestParseLocation_NoAccuracy(t *testing.T) {
	loc, err := parseLocation("4.61 -74.08")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, 0.0, loc.Acc)
}

func TestParseLocation_Empty(t *testing.T) {
	loc, err := parseLocation("")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestParseLocation_Malformed(t *testing.T) {
	_, err := parseLocation("somewhere in the forest")
	require.Error(t, err)
}
