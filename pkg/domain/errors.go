package domain

import "errors"

// ErrInvalidGraph is returned when a graph cannot be constructed or fails
// structural validation. No session can be created over such a graph.
var ErrInvalidGraph = errors.New("invalid graph")

// ErrInvalidTransition is returned when choose is called on a leaf node.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrOptionOutOfRange is returned when a choice index does not address an
// option of the current node.
var ErrOptionOutOfRange = errors.New("option out of range")

// ErrAtRoot is returned when back is called on a session at the root.
var ErrAtRoot = errors.New("already at root")

// ErrUnknownNode is returned when a session references a node id absent
// from the graph, typically a stale persisted session after the graph
// changed underneath it.
var ErrUnknownNode = errors.New("unknown node")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
