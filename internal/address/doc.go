// Package address validates aliases and email addresses and builds the
// hashed reply addresses of the form <alias>+<hash>@<domain>.
package address
