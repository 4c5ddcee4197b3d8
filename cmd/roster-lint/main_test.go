package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLintRoster(t *testing.T) {
	rep, err := lintRoster(strings.NewReader("name,gender\nAl,M\nBo,f\nCy,M\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Males)
	assert.Equal(t, 1, rep.Females)
	assert.Len(t, rep.Roster, 3)

	_, err = lintRoster(strings.NewReader("Al,M\nBo,Q\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = lintRoster(strings.NewReader(""))
	assert.Error(t, err)
}

func TestPreviewTeams(t *testing.T) {
	rep, err := lintRoster(strings.NewReader("A,M\nB,M\nC,F\nD,M\nE,M\nF,F\nG,M\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, previewTeams(&buf, rep.Roster, "2m1f", 3, 7))

	var got preview
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "2m1f", got.Mode)
	assert.Equal(t, 2, got.Balanced)
	require.Len(t, got.Waves, 1)
	assert.Len(t, got.Waves[0].Teams, 2)
	assert.Len(t, got.Unassigned, 1)

	assert.Error(t, previewTeams(&buf, rep.Roster, "bogus", 3, 7))
}
