// Package engine contains the tick-driven simulation logic.
// This is the heartbeat of "Salón de Mascotas".
package engine

// The engine advances in discrete ticks. Within one tick, timers are
// decremented (effects, cages) before any state-dependent decision is
// evaluated, so anything expiring exactly at the tick boundary is treated
// as already expired for that tick.
