// Package viz renders a scene in the terminal and turns mouse input into
// scene input.
//
//   - [Canvas]: braille dot raster, 2x4 dots per cell
//   - [Viewport]: world (y up) to raster (y down) mapping
//   - [Render]: draws a lifecycle frame's lines and sprite outlines
//   - [Model]: Bubble Tea program stepping the scene at 60 Hz
//
// # Key Bindings
//
//	Left drag   - move a segment
//	Right click - launch a coin
//	Space       - pause/resume
//	N           - single tick while paused
//	T           - cycle themes
//	?           - toggle help
package viz
