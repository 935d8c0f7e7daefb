package license

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidKey = errors.New("invalid license key format")

// Key is an opaque entitlement token: four 8-character uppercase hex groups,
// e.g. A1B2C3D4-E5F60718-293A4B5C-6D7E8F90.
type Key string

var keyRegex = regexp.MustCompile(`^[0-9A-F]{8}(-[0-9A-F]{8}){3}$`)

func NewKey(s string) (Key, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if !keyRegex.MatchString(s) {
		return Key(""), ErrInvalidKey
	}
	return Key(s), nil
}

func (k Key) String() string {
	return string(k)
}

// IssueKey generates a fresh key from 16 random bytes. The key is assigned at
// purchase creation and stays inert until the purchase completes.
func IssueKey() (Key, error) {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return Key(""), err
	}
	enc := strings.ToUpper(hex.EncodeToString(raw[:]))
	groups := []string{enc[0:8], enc[8:16], enc[16:24], enc[24:32]}
	return Key(strings.Join(groups, "-")), nil
}
