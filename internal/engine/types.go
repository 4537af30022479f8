package engine

// Signal identifies a wire the simulator bridge knows how to drive and read.
// Its zero value is never a valid signal.
type Signal string

// Clock identifies a clock domain a thread can block on between timesteps.
// The core treats Clock as an opaque comparable key; advancing simulated
// time for a clock is entirely the external driver's responsibility.
type Clock string

// Value is the payload of a poke or the result of a peek. The core never
// interprets Value; it is opaque data handed to and read back from the
// simulator bridge.
type Value any
