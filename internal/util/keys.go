package util

import (
	"crypto/sha256"
	"fmt"
)

// maxRawID bounds ids embedded verbatim in storage keys; longer ids are hashed.
const maxRawID = 64

// StorageKey returns "<prefix>:<ns>:<id>". Ids longer than maxRawID are
// replaced by a short hash so backend key sizes stay bounded.
func StorageKey(prefix, ns, id string) string {
	if len(id) > maxRawID {
		sum := sha256.Sum256([]byte(id))
		id = fmt.Sprintf("h%x", sum)[:1+16] // "h" + first 16 hex chars
	}
	return prefix + ":" + ns + ":" + id
}
