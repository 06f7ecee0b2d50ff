// Package server wires and runs the key server's HTTP transport: startup,
// signal handling, and graceful shutdown.
package server
