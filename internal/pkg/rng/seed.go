package rng

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Salt folded into daily seeds so a content revision can reshuffle every
// player's daily roll without touching user IDs.
const dailySeedSalt = "kurgan_daily_v1"

// DailySeed derives the seed for a user's daily character from the user ID
// and the UTC day key ("2006-01-02"). Same user and day always derive the
// same seed, so the generated sheet is reproducible even without the
// persisted row.
func DailySeed(userID, dayKey string) uint32 {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", userID, dayKey, dailySeedSalt)))
	return binary.BigEndian.Uint32(sum[:4])
}

// RandomSeed draws a fresh seed from the OS entropy pool. Used for forced
// rerolls, which must not be derivable the way daily seeds are.
func RandomSeed() uint32 {
	var buf [4]byte
	// crypto/rand.Read never fails on supported platforms.
	_, _ = rand.Read(buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

// EncounterSeed derives a per-encounter seed from the run seed and the
// encounter index, spreading nearby indices across the full 32-bit space.
func EncounterSeed(runSeed uint32, index int) uint32 {
	s := runSeed ^ (uint32(index) * 2654435761) // #nosec G115 // index is a small room counter
	s = (s ^ (s >> 16)) * 0x85ebca6b
	s = (s ^ (s >> 13)) * 0xc2b2ae35
	return s ^ (s >> 16)
}
