package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/aussiebroadwan/profiles/pkg/slogx"
)

// Recover turns a panic in a downstream handler into a call to onPanic, so a
// single bad request never takes the process down. http.ErrAbortHandler is
// re-raised as net/http expects.
func Recover(onPanic http.Handler) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				slogx.FromContext(r.Context()).Error("panic serving request",
					"panic", v,
					"stack", string(debug.Stack()),
				)
				onPanic.ServeHTTP(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
