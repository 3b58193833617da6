package logging

import (
	"context"

	"github.com/dlshle/nscache/gr_context"
)

func WrapCtx(ctx context.Context, key, val string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	mapCtx := make(map[string]string)
	if original, ok := ctx.Value(CtxValLoggingContext).(map[string]string); ok {
		for k, v := range original {
			mapCtx[k] = v
		}
	}
	mapCtx[key] = val
	return context.WithValue(ctx, CtxValLoggingContext, mapCtx)
}

// goroutine scoped logging context, picked up by loggers with GR context logging enabled

const grPrefix = "$logging_"

func SetGR(k, v string) {
	gr_context.Put(grPrefix+k, v)
}

func GetGR(k string) string {
	v, _ := gr_context.Get(grPrefix + k).(string)
	return v
}

func DeleteGR(k string) {
	gr_context.Delete(grPrefix + k)
}

func ClearGR() {
	gr_context.ClearByPrefix(grPrefix)
}

func getAllGR() map[string]string {
	res := make(map[string]string)
	for k, v := range gr_context.GetByPrefix(grPrefix) {
		if s, ok := v.(string); ok {
			res[k[len(grPrefix):]] = s
		}
	}
	return res
}
