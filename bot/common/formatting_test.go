package common

import (
	"strings"
	"testing"
	"time"

	"housie/ticket"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{100000, "100,000"},
		{1234567, "1,234,567"},
		{-2500, "-2,500"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBalance(tt.in))
	}
}

func TestFormatGrid(t *testing.T) {
	grid := ticket.Grid{
		{1, 0, 23, 0, 41, 52, 0, 71, 0},
		{5, 0, 27, 0, 45, 0, 63, 0, 84},
		{0, 12, 0, 34, 48, 0, 66, 0, 90},
	}

	out := FormatGrid(grid)

	assert.True(t, strings.HasPrefix(out, "```\n"))
	assert.True(t, strings.HasSuffix(out, "\n```"))
	assert.Contains(t, out, grid.String())
}

func TestFormatDiscordTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	assert.Equal(t, "<t:1700000000:R>", FormatDiscordTimestamp(ts, "R"))
}
