package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/delish/pkg/logger"
	"github.com/shashiranjanraj/delish/pkg/metrics"
	"github.com/shashiranjanraj/delish/pkg/response"
)

// Recovery turns a handler panic into a 500 envelope. http.ErrAbortHandler
// is re-raised so net/http can drop the connection quietly.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			recovered(w, r, v)
		}()
		next.ServeHTTP(w, r)
	})
}

func recovered(w http.ResponseWriter, r *http.Request, v any) {
	metrics.PanicsRecovered.Inc()
	logger.WithCtx(r.Context()).Error("handler panic",
		"panic", fmt.Sprint(v),
		"route", r.Method+" "+r.URL.Path,
		"stack", string(debug.Stack()),
	)
	response.Error(w, http.StatusInternalServerError, "Internal Server Error")
}
