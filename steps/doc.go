// Package steps provides intercept.Stepper implementations that report the
// steps of a test run: as log lines, as trace spans and as an in-memory
// record. Several reporters are combined with Chain.
package steps
