package types

import (
	"regexp"
	"unicode/utf8"
)

// ChatMaxLen bounds relayed chat bodies. Longer messages are truncated,
// never rejected.
const ChatMaxLen = 1000

const truncationMarker = "..."

var userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// IsValidUserID checks user identifier format: 1-50 characters,
// alphanumeric plus underscore/hyphen.
func IsValidUserID(userID string) bool {
	if len(userID) < 1 || len(userID) > 50 {
		return false
	}
	return userIDRegex.MatchString(userID)
}

// IsValidKind reports whether the inbound message type is recognized.
func IsValidKind(kind string) bool {
	switch kind {
	case KindJoin, KindOffer, KindAnswer, KindCandidate, KindChat,
		KindRaiseHand, KindConnectionError, KindHeartbeat, KindPong,
		KindPing, KindGetRoomState, KindLeave:
		return true
	default:
		return false
	}
}

// TruncateChat bounds a chat body to ChatMaxLen characters. Oversized
// bodies come back as the first ChatMaxLen-3 characters plus "...", so
// the result is exactly ChatMaxLen characters long. The cut counts
// runes, not bytes, so multibyte text is never split mid-character.
func TruncateChat(message string) string {
	if utf8.RuneCountInString(message) <= ChatMaxLen {
		return message
	}
	runes := []rune(message)
	return string(runes[:ChatMaxLen-len(truncationMarker)]) + truncationMarker
}
