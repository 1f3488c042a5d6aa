package store

// CASScript exposes the Redis compare-and-swap script to tests.
const CASScript = casScript
