// Package arm assembles the two-link arm in a world: a static floor, a static
// anchor, and aft and fore box segments joined by two pivots, a damped rotary
// spring and two rotary limits.
//
// Angles follow the engine (radians, counter-clockwise). The shoulder limit
// bounds the aft segment relative to the anchor, the elbow limit the fore
// segment relative to the aft segment.
package arm
