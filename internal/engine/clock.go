package engine

// simClock is the shared simulation tick counter. Systems stamp emitted
// events with it; only the Engine advances it.
type simClock struct {
	tick int64
}

func (c *simClock) now() int64 {
	return c.tick
}
