package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer

	got, err := GetSimpleText(reader("  hello world \n"), "Say something", &out)
	require.NoError(t, err)
	require.Equal(t, "hello world", got)
	require.Contains(t, out.String(), "Say something")
}

func TestGetSimpleTextPartialLineAtEOF(t *testing.T) {
	var out bytes.Buffer

	got, err := GetSimpleText(reader("no newline"), "p", &out)
	require.NoError(t, err)
	require.Equal(t, "no newline", got)
}

func TestGetPasswordUsesSeam(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	require.Equal(t, "s3cret", pw)
	require.Contains(t, out.String(), "Enter password:")
}

func TestGetMultiline(t *testing.T) {
	var out bytes.Buffer

	got, err := GetMultiline(reader("line one\nline two\n\n"), "Notes", &out)
	require.NoError(t, err)
	require.Equal(t, "line one\nline two", got)
}

func TestGetInt(t *testing.T) {
	var out bytes.Buffer

	n, err := GetInt(reader("4\n"), "Rating", 3, &out)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	n, err = GetInt(reader("\n"), "Rating", 3, &out)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = GetInt(reader("four\n"), "Rating", 3, &out)
	require.Error(t, err)
}

func TestGetTime(t *testing.T) {
	var out bytes.Buffer

	ts, err := GetTime(reader("2025-03-01 14:30\n"), "When", &out)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 1, 14, 30, 0, 0, time.Local), ts)

	_, err = GetTime(reader("tomorrow\n"), "When", &out)
	require.Error(t, err)
}

func TestGetDateOptional(t *testing.T) {
	var out bytes.Buffer

	ts, err := GetDate(reader("\n"), "Last day", &out)
	require.NoError(t, err)
	require.True(t, ts.IsZero())

	ts, err = GetDate(reader("2025-02-28\n"), "Last day", &out)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.Local), ts)
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer

	for input, want := range map[string]bool{"y\n": true, "yes\n": true, "Y\n": true, "n\n": false, "\n": false} {
		got, err := Confirm(reader(input), "Sure?", &out)
		require.NoError(t, err)
		require.Equal(t, want, got, "input %q", input)
	}
}
