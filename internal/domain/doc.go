// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (routes, recipient relations) and contracts
// (storage and mail-sending interfaces) only.
package domain
