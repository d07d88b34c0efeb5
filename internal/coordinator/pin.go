package coordinator

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// GeneratePIN exposes generatePIN to internal/transport/http, which needs to
// mint collision-checked candidate PINs against internal/pinindex before a
// Coordinator (and thus a confirmed PIN) exists.
func GeneratePIN() string {
	return generatePIN()
}

// generatePIN samples a uniformly random 6-digit decimal PIN in [100000, 999999].
// Collision detection against live games is the caller's responsibility
// (see internal/pinindex) — the Coordinator itself is agnostic to whether
// its PIN is globally unique.
func generatePIN() string {
	const low, span = 100000, 900000
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		// crypto/rand failing is exceptional; fall back to the low end rather
		// than panicking a live coordinator.
		return "100000"
	}
	return itoa6(low + int(n.Int64()))
}

func itoa6(n int) string {
	digits := [6]byte{}
	for i := 5; i >= 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[:])
}

// newPlayerID mints a fresh, server-assigned player id, trimmed to a short
// token since the full UUID is more entropy than a per-game roster needs.
func newPlayerID() string {
	id := uuid.New()
	return id.String()[:12]
}
