package rosterparser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triotag/models"
)

func TestParse_SkipsHeaderAndBlankLines(t *testing.T) {
	in := "Name,Gender\nAlice, f\n\nBob,M\n  Carol ,F,extra\n"
	rows, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []models.RosterRow{
		{Name: "Alice", Gender: "f", Line: 2},
		{Name: "Bob", Gender: "M", Line: 4},
		{Name: "Carol", Gender: "F", Line: 5},
	}, rows)
}

func TestParse_NoHeader(t *testing.T) {
	rows, err := Parse(strings.NewReader("Dana,F\r\nEli,M\r\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Dana", rows[0].Name)
}

func TestParse_ShortRow(t *testing.T) {
	_, err := Parse(strings.NewReader("name,gender\nAlice,F\nBob\n"))
	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 3, lineErr.Line)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader("name,gender\n"))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)
}
