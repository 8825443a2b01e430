package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserIDs(t *testing.T) {
	ids, err := ParseUserIDs("123456789,987654321")
	require.NoError(t, err)
	assert.Equal(t, []int64{123456789, 987654321}, ids)
}

func TestParseUserIDs_TrimsAndSkipsBlanks(t *testing.T) {
	ids, err := ParseUserIDs(" 42 , ,7,")
	require.NoError(t, err)
	assert.Equal(t, []int64{42, 7}, ids)
}

func TestParseUserIDs_RejectsGarbage(t *testing.T) {
	_, err := ParseUserIDs("123,abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abc")
}

func TestParseUserIDs_Empty(t *testing.T) {
	ids, err := ParseUserIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
