// This file contains general types shared across the normalized replay
// model.

package repcore

import "time"

// Loop is the basic time unit of an SC2 replay: a simulation gameloop.
// Normal game speed runs at 16 loops per second; Faster (the default
// matchmaking speed) runs at roughly 22.4 loops per second. The exact
// speed isn't part of this minimal model, so Duration assumes Faster;
// callers that know the true speed should compute duration themselves.
type Loop int64

const loopsPerSecondFaster = 22.4

// Duration returns the loop count as a time.Duration, assuming Faster
// speed.
func (l Loop) Duration() time.Duration {
	seconds := float64(l) / loopsPerSecondFaster
	return time.Duration(seconds * float64(time.Second))
}
