package controller

import "context"

type contextKey int

const (
	surfaceIDCtxKey contextKey = iota
)

func (c *controller) getSurfaceIDFromCtx(ctx context.Context) string {
	surfaceID, ok := ctx.Value(surfaceIDCtxKey).(string)
	if !ok {
		return ""
	}

	return surfaceID
}
