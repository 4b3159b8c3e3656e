/*
Package session orchestrates concurrent access to stored walk sessions.

The Manager serializes read-modify-write sequences per session ID with
reference-counted in-process locks, and can additionally coordinate
across replicas through an optional ports.DistributedLocker.
*/
package session
