package app

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNickname(t *testing.T) {
	for i := 0; i < 50; i++ {
		parts := strings.Split(GenerateNickname(), " ")
		if assert.Len(t, parts, 2) {
			assert.Contains(t, NicknameAdjectives, strings.ToLower(parts[0]))
			assert.Contains(t, NicknameNouns, strings.ToLower(parts[1]))
		}
	}
}

func TestCleanNickname(t *testing.T) {
	assert.Equal(t, "Ada", CleanNickname("  Ada "))
	assert.Equal(t, "Ada Lovelace", CleanNickname("Ada \t  Lovelace"))
	assert.Equal(t, MaxNicknameLength, utf8.RuneCountInString(CleanNickname(strings.Repeat("é", 40))))
	assert.NotEmpty(t, CleanNickname("   "))
}
