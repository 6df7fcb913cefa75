package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHandle(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"The Big Frontman", "the-big-frontman"},
		{"the_big_frontman", "the-big-frontman"},
		{"  Sax Player  ", "sax-player"},
		{"dj--cool", "dj-cool"},
		{"-leading-and-trailing-", "leading-and-trailing"},
		{"über STAGE name!", "ber-stage-name"},
		{"already-fine", "already-fine"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeHandle(tc.input), "input %q", tc.input)
	}
}
