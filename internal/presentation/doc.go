// Package presentation renders CLI output: the route table and paged
// display of longer listings.
package presentation
