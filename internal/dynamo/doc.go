// Package dynamo holds the few types shared by the arm model, the
// integrators and the solver driver: the [State] vector, the [System] and
// [Integrator] interfaces, and the [Tolerance] an adaptive run must meet.
//
// Failures are reported with the sentinel errors declared here, wrapped
// with context by the caller. Test for them with errors.Is.
package dynamo
