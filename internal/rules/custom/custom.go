// Package custom registers the built-in custom rule conditions.
// Import it for side effects.
package custom

import "github.com/Jean-Jawed/Patternia/internal/registry"

func init() {
	registry.Register("touch_start", "landed on the start cell", touchStart)
	registry.Register("touch_corner", "landed on a corner cell", touchCorner)
	registry.Register("same_color_twice", "the last two recorded colors are equal", sameColorTwice)
	registry.Register("touch_dark", "landed on a blinking cell while it is off", touchDark)
}

func touchStart(ctx registry.Context) bool {
	return ctx.Cell.IsStart
}

func touchCorner(ctx registry.Context) bool {
	if ctx.Grid == nil {
		return false
	}
	last := ctx.Grid.Size() - 1
	return (ctx.Col == 0 || ctx.Col == last) && (ctx.Row == 0 || ctx.Row == last)
}

func sameColorTwice(ctx registry.Context) bool {
	pair := ctx.LastColors(2)
	return pair != nil && pair[0] == pair[1]
}

func touchDark(ctx registry.Context) bool {
	return ctx.Cell.IsBlinking() && !ctx.Cell.BlinkVisible
}
