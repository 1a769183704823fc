package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxMessageLength bounds a chat message in characters.
const MaxMessageLength = 2000

// NormalizeMessage trims content and checks it is sendable.
func NormalizeMessage(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.New("message cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return "", fmt.Errorf("message cannot exceed %d characters", MaxMessageLength)
	}
	return content, nil
}
