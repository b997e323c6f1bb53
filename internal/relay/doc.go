// Package relay implements the mail forwarding pipeline and the HTTP
// server that receives SES receipt events.
//
// For every inbound message the forwarder decides between two paths:
//
//   - Forward: mail sent to <alias>@<domain> is rewritten so that the
//     sender becomes a hashed reply address <alias>+<hash>@<domain> and
//     delivered to the route's verified forward address.
//   - Reply: mail from a verified address to a hashed reply address is
//     rewritten so that the alias appears as the sender and delivered to
//     the stored correspondent.
//
// The relay never sees credentials or mailbox state beyond the S3 bucket.
package relay
