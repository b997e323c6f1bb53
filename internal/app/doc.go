// Package app wires application dependencies for the CLI and the relay.
//
// It loads and verifies the Lampions config, builds the AWS clients and
// concrete stores, and exposes the high-level services via the Wire
// struct for commands and the relay daemon to use.
package app
