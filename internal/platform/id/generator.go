// Package id derives every identifier the store hands out. Randomness and
// the monotonic serial are explicit state threaded through each call, never
// package globals, so generation stays reproducible under test.
package id

import "fmt"

// Alphabets skip easily-confused symbols (0/O, 1/I/L) since team IDs and
// access codes are read aloud and typed by hand.
const (
	teamIDAlphabet     = "abcdefghjkmnpqrstuvwxyz23456789"
	accessCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	teamIDLength     = 9
	accessCodeLength = 8
)

// State carries the mutable PRNG seed and the global serial counter. The
// zero value is usable but every process should seed it once at boot.
type State struct {
	Seed   uint64
	Serial uint64
}

// NewState seeds the generator. Team IDs and access codes drawn from the
// same seed come out in the same order; they are collision-improbable, not
// proven unique, and no retry is attempted on collision.
func NewState(seed uint64) State {
	return State{Seed: seed}
}

// TeamID draws a fresh team identifier and returns the advanced state.
func (s State) TeamID() (string, State) {
	value, next := splitmix64(s.Seed)
	s.Seed = next

	return render(value, teamIDAlphabet, teamIDLength), s
}

// AccessCode draws a shareable access code and returns the advanced state.
func (s State) AccessCode() (string, State) {
	value, next := splitmix64(s.Seed)
	s.Seed = next

	return render(value, accessCodeAlphabet, accessCodeLength), s
}

// MemberID formats the next serial tick. Uniqueness holds for the whole
// store because the serial is shared across teams and never reused.
func (s State) MemberID() (string, State) {
	s.Serial++
	return fmt.Sprintf("mbr-%06d", s.Serial), s
}

// MatchID formats the next serial tick, same contract as MemberID.
func (s State) MatchID() (string, State) {
	s.Serial++
	return fmt.Sprintf("mch-%06d", s.Serial), s
}

// splitmix64 is a single step of the SplitMix64 generator: cheap,
// deterministic for a given seed, and well distributed.
func splitmix64(seed uint64) (value, nextSeed uint64) {
	seed += 0x9e3779b97f4a7c15
	z := seed
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31

	return z, seed
}

func render(value uint64, alphabet string, length int) string {
	out := make([]byte, length)
	size := uint64(len(alphabet))
	for i := range out {
		out[i] = alphabet[value%size]
		value /= size
	}

	return string(out)
}
