// Package lifecycle runs the per-frame bookkeeping around the world step:
// bodies that drop below the lower bound are removed for good, the world
// advances one fixed step, an active drag is pinned back to the pointer, and
// every tracked body's pose is copied out for the renderer.
package lifecycle
