// Package mailer implements domain.Mailer on top of AWS SES.
package mailer
