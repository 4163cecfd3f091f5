// Package compass implements the core of a personal portfolio advisor:
// lot-based cost basis tracking, FIFO hold-rule consolidation, exit-signal
// evaluation, and validation of externally produced trade recommendations.
//
// The package is a pure, synchronous core. Everything that talks to the
// outside world (quotes, the LLM recommendation source, the terminal) lives
// behind narrow interfaces and in the cmd, agent and renderer packages.
package compass
