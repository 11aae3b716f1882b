package provision

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*"

	passwordAlphabet = upperChars + lowerChars + digitChars + symbolChars

	// DefaultPasswordLength satisfies Windows complexity requirements with
	// headroom.
	DefaultPasswordLength = 16
)

// GeneratePassword returns a uniformly sampled password of the given
// length, guaranteed to contain at least one uppercase letter, one
// lowercase letter and one digit. The random source is crypto/rand
// throughout; the result becomes a live administrator credential.
func GeneratePassword(length int) (string, error) {
	if length < 4 {
		return "", fmt.Errorf("password length %d too short, need at least 4", length)
	}

	password := make([]byte, length)
	for i := range password {
		c, err := randomChar(passwordAlphabet)
		if err != nil {
			return "", err
		}
		password[i] = c
	}

	if err := enforceClasses(password); err != nil {
		return "", err
	}
	return string(password), nil
}

// enforceClasses patches fixed positions from the back until the
// uppercase, lowercase and digit classes are all present. A single
// patch pass is not enough: overwriting the sole member of one class
// (say, the only uppercase letter sitting at len-2) can knock that
// class back out, so re-check until a pass changes nothing. The fixed
// positions make this converge: once len-1 holds an uppercase letter,
// len-2 a lowercase one and len-3 a digit, no pass patches again.
func enforceClasses(password []byte) error {
	n := len(password)
	for {
		patched := false
		if !containsAny(password, upperChars) {
			c, err := randomChar(upperChars)
			if err != nil {
				return err
			}
			password[n-1] = c
			patched = true
		}
		if !containsAny(password, lowerChars) {
			c, err := randomChar(lowerChars)
			if err != nil {
				return err
			}
			password[n-2] = c
			patched = true
		}
		if !containsAny(password, digitChars) {
			c, err := randomChar(digitChars)
			if err != nil {
				return err
			}
			password[n-3] = c
			patched = true
		}
		if !patched {
			return nil
		}
	}
}

func randomChar(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, fmt.Errorf("failed to read random source: %w", err)
	}
	return alphabet[n.Int64()], nil
}

func containsAny(s []byte, chars string) bool {
	for _, b := range s {
		for i := 0; i < len(chars); i++ {
			if b == chars[i] {
				return true
			}
		}
	}
	return false
}
