package notify

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/tartampluch/hellodays/internal/config"
)

// Key returns the "<contactID>_<role>" string a notification ID is derived from.
func Key(contactID int, role string) string {
	return fmt.Sprintf(config.NotificationKeyFmt, contactID, role)
}

// NameDayRole returns the role of the i-th name day of a contact.
func NameDayRole(i int) string {
	return fmt.Sprintf("%s%d", config.RoleNameDayPrefix, i)
}

// DeriveID hashes Key(contactID, role) into a stable, non-negative handle.
func DeriveID(contactID int, role string) int64 {
	return HashKey(Key(contactID, role))
}

// HashKey is a 31-multiplier polynomial hash over the UTF-16 code units of s,
// wrapped to 32 bits, made non-negative. Collisions are possible.
func HashKey(s string) int64 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(u)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// ContactIDFromKey extracts the contact ID prefix of a key; ok is false for
// foreign keys.
func ContactIDFromKey(key string) (id int, ok bool) {
	prefix, _, found := strings.Cut(key, "_")
	if !found {
		return 0, false
	}
	id, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return id, true
}
