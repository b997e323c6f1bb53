// Package commands defines the lampions CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init                 Write the initial config for a region and domain
//   - show-config          Print the current config
//   - configure            Provision the AWS infrastructure with terraform
//   - add-forward-address  Trigger SES verification for a forward address
//   - list-routes          Print the routing table
//   - add-route            Create an alias route
//   - update-route         Change a route's forward address, state or meta
//   - remove-route         Delete an alias route
//   - list-recipients      Inspect recorded reply addresses
//
// # Implementation
//
// init, show-config and configure work on the local config file alone.
// Every other command builds the AWS-backed dependency graph (S3 stores,
// SES mailer, services) through internal/app before running, so handlers
// share one client configuration per invocation.
package commands
