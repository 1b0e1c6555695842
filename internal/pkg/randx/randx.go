/*
Package randx provides random identifiers and the naming conventions for participant identities.

Generated participant identities look like "user-k3x9a0qz"; observer identities are
sequence-numbered per room as "observer-<n>".
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const (
	// Base36Chars defines the character set used for generated identity suffixes (0-9, a-z).
	Base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

	// Base36Len is the total number of characters in the Base36 character set (36).
	Base36Len = int64(len(Base36Chars))

	// UserIDPrefix is the prefix of auto-generated participant identities.
	UserIDPrefix = "user-"

	// UserIDRawLength is the length of the random part of a generated identity.
	UserIDRawLength = 8

	// ObserverIDPrefix is the prefix shared by all observer identities.
	ObserverIDPrefix = "observer-"
)

// randomString draws length characters uniformly from Base36Chars using crypto/rand.
func randomString(length int) (string, error) {
	result := make([]byte, length)

	for i := range length {
		num, err := rand.Int(rand.Reader, big.NewInt(Base36Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for identity: %w", err)
		}

		result[i] = Base36Chars[num.Int64()]
	}

	return string(result), nil
}

// UserID generates an identity of the form "user-<8 base36 chars>".
func UserID() (string, error) {
	suffix, err := randomString(UserIDRawLength)
	if err != nil {
		return "", err
	}
	return UserIDPrefix + suffix, nil
}

// IsGeneratedUserID reports whether id has the shape produced by UserID.
func IsGeneratedUserID(id string) bool {
	rawID, ok := strings.CutPrefix(id, UserIDPrefix)
	if !ok || len(rawID) != UserIDRawLength {
		return false
	}

	for _, char := range rawID {
		if !strings.ContainsRune(Base36Chars, char) {
			return false
		}
	}

	return true
}

// ObserverID returns the observer identity for slot n.
func ObserverID(n int) string {
	return ObserverIDPrefix + strconv.Itoa(n)
}

// ParseObserverID extracts n from "observer-<n>". Only canonical positive decimal
// numbers are accepted: "observer-0", "observer-01" and "observer-+1" are not observers.
func ParseObserverID(id string) (int, bool) {
	raw, ok := strings.CutPrefix(id, ObserverIDPrefix)
	if !ok || raw == "" || raw[0] == '0' {
		return 0, false
	}

	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return n, true
}
