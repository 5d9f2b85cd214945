// Package errors provides standardized error definitions for the wsrooms
// HTTP surface. Definitions shared across handlers are centralized here
// for consistency.
package errors
