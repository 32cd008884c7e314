package service_code

import (
	"encoding/hex"

	"github.com/google/uuid"
)

const (
	adminPrefix  = "adm_"
	memberPrefix = "usr_"

	// Random bytes in a join code; it is typed by hand.
	joinCodeBytes = 6
)

// Generator builds the opaque tokens handed out to users.
// Randomness comes from v4 UUIDs, which google/uuid reads from crypto/rand.
// Uniqueness against stored tokens is checked by the callers.
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) AdminCode() string {
	return adminPrefix + randomHex(uuid.New())
}

func (g *Generator) MemberCode() string {
	return memberPrefix + randomHex(uuid.New())
}

// JoinCode takes the leading bytes of a v4 UUID, which are all random:
// version and variant bits live in bytes 6 and 8.
func (g *Generator) JoinCode() string {
	id := uuid.New()
	return hex.EncodeToString(id[:joinCodeBytes])
}

func randomHex(id uuid.UUID) string {
	return hex.EncodeToString(id[:])
}
