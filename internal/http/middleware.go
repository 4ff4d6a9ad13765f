package http

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sgivu/sgivu-auth/internal/observability/logger"
)

// requestLogger loguea cada request con el logger scoped inyectado en
// el contexto, así los handlers aguas abajo heredan el request_id.
func requestLogger(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		start := time.Now()
		reqID := middleware.GetReqID(r.Context())

		lg := logger.With(logger.RequestID(reqID))
		ctx := logger.ToContext(r.Context(), lg)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		lg.Info("http request",
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Status(ww.Status()),
			logger.Duration(time.Since(start)),
			logger.ClientIP(r.RemoteAddr),
		)
	})
}
