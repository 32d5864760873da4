// Package progress turns study activity into experience points, a level on
// a quadratic curve, and a set of unlocked achievements.
//
// Every function is pure. Callers load tasks and sessions from wherever
// they keep them and ask for a fresh Snapshot whenever they render; nothing
// is cached between calls, so deleting a session or reopening a task is
// reflected immediately.
package progress
