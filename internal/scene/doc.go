// Package scene wires the interactive arm together from a config: the world,
// the arm assembly, the pointer controller and the lifecycle manager. The
// CLI, the terminal view and scripted scenarios all drive a Scene through
// the same Press/Move/Release/Tick calls.
package scene
