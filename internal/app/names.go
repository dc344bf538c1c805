package app

import (
	"math/rand"
	"strings"
	"unicode/utf8"
)

// MaxNicknameLength is the longest nickname kept, in runes
const MaxNicknameLength = 24

// NicknameAdjectives and NicknameNouns are combined into generated nicknames
var NicknameAdjectives = []string{
	"neon", "chrome", "quantum", "binary", "pixel",
	"turbo", "cosmic", "static", "laser", "plasma",
	"silent", "rapid", "lucky", "feral", "golden",
	"frozen", "electric", "shadow", "crimson", "velvet",
}

var NicknameNouns = []string{
	"falcon", "panther", "cobra", "kraken", "phoenix",
	"tiger", "wolf", "octopus", "dolphin", "beetle",
	"comet", "meteor", "glacier", "tornado", "volcano",
	"paddle", "racket", "joystick", "arcade", "drone",
}

// GenerateNickname returns a random "Adjective Noun" nickname
func GenerateNickname() string {
	adj := NicknameAdjectives[rand.Intn(len(NicknameAdjectives))]
	noun := NicknameNouns[rand.Intn(len(NicknameNouns))]
	return capitalize(adj) + " " + capitalize(noun)
}

// CleanNickname trims and truncates a client-supplied nickname. An empty
// result gets a generated one.
func CleanNickname(nickname string) string {
	nickname = strings.Join(strings.Fields(nickname), " ")
	if utf8.RuneCountInString(nickname) > MaxNicknameLength {
		nickname = strings.TrimSpace(string([]rune(nickname)[:MaxNicknameLength]))
	}
	if nickname == "" {
		return GenerateNickname()
	}
	return nickname
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
