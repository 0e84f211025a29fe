package chip8

import (
	"time"

	"github.com/retroenv/retrogolib/log"
)

/// DefaultSeed is used when no usable seed can be taken from the clock.
///
const DefaultSeed uint32 = 4

/// Random is the xorshift byte generator behind RND. The same seed always
/// produces the same sequence.
///
type Random struct {
	state uint32
}

/// NewRandom returns a generator seeded with seed.
///
func NewRandom(seed uint32) *Random {
	r := &Random{}
	r.Seed(seed)

	return r
}

/// Seed sets the generator state directly.
///
func (r *Random) Seed(seed uint32) {
	r.state = seed
}

/// SeedWithClock seeds from the wall clock in milliseconds.
///
func (r *Random) SeedWithClock(logger *log.Logger) {
	r.seedWithTime(time.Now(), logger)
}

func (r *Random) seedWithTime(now time.Time, logger *log.Logger) {
	ms := now.UnixMilli()

	// a zero state would make xorshift emit zeros forever
	if ms <= 0 || uint32(ms) == 0 {
		if logger != nil {
			logger.Info("Clock unusable for seeding, random sequence is static",
				log.Int("seed", int(DefaultSeed)))
		}

		r.state = DefaultSeed
		return
	}

	r.state = uint32(ms)
}

/// Next advances the generator and returns the low byte of the new state.
///
func (r *Random) Next() byte {
	x := r.state

	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5

	r.state = x

	return byte(x)
}
