package donation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const referencePrefix = "SCH"

// GenerateReference builds a unique account reference for a new payment
// intent: prefix, creation timestamp, and a random UUID fragment. The random
// fragment keeps references collision-free even for initiations landing in
// the same second.
func GenerateReference() string {
	ts := time.Now().Format("20060102150405")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return referencePrefix + ts + strings.ToUpper(suffix)
}
