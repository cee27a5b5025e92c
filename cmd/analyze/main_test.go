package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spacesedan/sentireview/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithArgs(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(strings.NewReader(""), &out, []string{"This", "was", "the", "worst", "purchase."}, false))

	var result models.SentimentResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "This was the worst purchase.", result.Text)
	assert.Equal(t, models.LabelNegative, result.SentimentLabel)
}

func TestRunFromStdin(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(strings.NewReader("The package arrived on Tuesday.\n"), &out, nil, false))

	var result models.SentimentResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "The package arrived on Tuesday.", result.Text)
	assert.Equal(t, models.LabelNeutral, result.SentimentLabel)
}
