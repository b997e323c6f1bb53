// Package routes implements alias route management: listing, creation,
// updates and removal, including alias validation and the requirement that
// forward addresses are verified with the mail backend.
package routes
