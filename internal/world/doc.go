// Package world is the rigid-body space the arm lives in.
//
// It wraps a Chipmunk space (github.com/jakecoffman/cp), adding membership
// checks around add and remove, a fixed simulation step and a point query
// that only reports dynamic shapes. Contact resolution and the constraint
// solver are the engine's; this package decides what is in the space and
// when it advances.
//
// Removal policy: RemoveBody takes the body's shapes with it but refuses
// while any joint still references the body (ErrBodyJointed).
package world
