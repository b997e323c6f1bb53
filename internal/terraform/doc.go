// Package terraform drives the bundled terraform configuration that
// provisions the AWS resources Lampions needs (SES domain identity,
// receipt rules, the S3 bucket and an access key for the relay).
package terraform
