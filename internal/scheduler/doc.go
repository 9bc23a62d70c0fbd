// Package scheduler holds the conflict detection and room assignment engine.
//
// Everything here is pure and synchronous: callers fetch a fresh snapshot of
// teachers, subjects, groups, rooms and assignments, hand it to the engine,
// and persist whatever decision comes back.
package scheduler
