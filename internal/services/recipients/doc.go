// Package recipients manages the relations between alias correspondents
// and the hashed reply addresses handed out for them.
package recipients
