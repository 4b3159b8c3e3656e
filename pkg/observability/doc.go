/*
Package observability provides plumbing around the engine's lifecycle
hooks.

The engine accepts exactly one hook set; Combine multiplexes several
consumers onto it. NewLogHooks turns events into structured log lines,
and Recorder captures them in memory for tests and demos.
*/
package observability
