package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabels(t *testing.T) {
	in := "n01440764 tench, Tinca tinca  \nn01443537 goldfish\t\r\n\nn01484850 great white shark\n"
	labels, err := ParseLabels(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"n01440764 tench, Tinca tinca",
		"n01443537 goldfish",
		"n01484850 great white shark",
	}, labels)
}

func TestParseLabelsNoTrailingNewline(t *testing.T) {
	labels, err := ParseLabels(strings.NewReader("cat\ndog"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, labels)
}

func TestParseLabelsEmpty(t *testing.T) {
	_, err := ParseLabels(strings.NewReader("\n  \n"))
	assert.Error(t, err)
}
