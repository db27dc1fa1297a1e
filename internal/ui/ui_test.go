package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr := stdout, stderr
	SetOutput(out, errOut)
	t.Cleanup(func() {
		SetOutput(prevOut, prevErr)
		SetTheme("classic")
		SetColorForcing(false, false)
	})
	return out, errOut
}

func TestPanel(t *testing.T) {
	out, _ := capture(t)
	SetTheme("mono")

	Panel([]string{"Todos", "a longer line"})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "+---------------+", lines[0])
	assert.Equal(t, "| Todos         |", lines[1])
	assert.Equal(t, "| a longer line |", lines[2])
	assert.Equal(t, lines[0], lines[3])
}

func TestColor(t *testing.T) {
	capture(t)

	assert.Equal(t, "x", C(fgRed, "x"), "no tty, no color")

	SetColorForcing(true, false)
	assert.Equal(t, fgRed+"x"+reset, C(fgRed, "x"))

	SetColorForcing(true, true)
	assert.Equal(t, "x", C(fgRed, "x"), "disable wins")
}

func TestOKAndFail(t *testing.T) {
	out, errOut := capture(t)

	OK("added")
	Fail("Failed to create todo")

	assert.Equal(t, "✔ added\n", out.String())
	assert.Equal(t, "✖ Failed to create todo\n", errOut.String())
}

func TestSetThemeUnknownFallsBack(t *testing.T) {
	capture(t)
	SetTheme("solarized")
	assert.Equal(t, themes["classic"], Current())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}
