package botkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	type generateArgs struct {
		Topic string `json:"topic"`
	}

	args, err := ParseJSON[generateArgs](` {"topic": "AI Trends"} `)
	require.NoError(t, err)
	assert.Equal(t, "AI Trends", args.Topic)

	_, err = ParseJSON[generateArgs]("   ")
	assert.ErrorIs(t, err, ErrNoArguments)

	_, err = ParseJSON[generateArgs]("AI Trends")
	assert.Error(t, err)
}
