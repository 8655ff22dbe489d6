// Package interact maps pointer input onto the world.
//
// Dragging is a two-state machine, Idle (nil *DragState) and Dragging:
//
//	Idle     --press, hit-->  Dragging
//	Idle     --press, miss--> Idle
//	Dragging --move-->        Dragging (body follows the pointer)
//	Dragging --release-->     Idle
//
// A secondary press launches a projectile instead and never touches the drag
// state.
package interact
