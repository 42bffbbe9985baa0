package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
)

// Tracing opens a Sentry transaction per request, propagates incoming trace
// headers, and reports panics and 5xx responses. It is a no-op shell when
// Sentry was never initialized.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub := sentry.GetHubFromContext(r.Context())
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}

		opts := []sentry.SpanOption{
			sentry.WithOpName("http.server"),
			sentry.WithTransactionSource(sentry.SourceURL),
			sentry.ContinueFromRequest(r),
		}

		txn := sentry.StartTransaction(r.Context(),
			r.Method+" "+r.URL.Path, opts...)
		defer txn.Finish()

		r = r.WithContext(sentry.SetHubOnContext(txn.Context(), hub))

		hub.Scope().SetContext("request", map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"query":       r.URL.RawQuery,
			"remote_addr": r.RemoteAddr,
			"user_agent":  r.UserAgent(),
		})
		if id := GetRequestID(r.Context()); id != "" {
			hub.Scope().SetTag("request_id", id)
			txn.SetTag("request_id", id)
		}

		defer func() {
			if rec := recover(); rec != nil {
				txn.Status = sentry.SpanStatusInternalError
				hub.RecoverWithContext(r.Context(), rec)
				panic(rec)
			}
		}()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		txn.Status = spanStatus(sw.status)
		txn.SetData("http.response.status_code", sw.status)

		if sw.status >= 500 {
			hub.CaptureMessage(fmt.Sprintf("HTTP %d: %s", sw.status, http.StatusText(sw.status)))
		}
	})
}

var spanStatusByCode = map[int]sentry.SpanStatus{
	http.StatusUnauthorized:       sentry.SpanStatusUnauthenticated,
	http.StatusForbidden:          sentry.SpanStatusPermissionDenied,
	http.StatusNotFound:           sentry.SpanStatusNotFound,
	http.StatusConflict:           sentry.SpanStatusAlreadyExists,
	http.StatusTooManyRequests:    sentry.SpanStatusResourceExhausted,
	http.StatusNotImplemented:     sentry.SpanStatusUnimplemented,
	http.StatusServiceUnavailable: sentry.SpanStatusUnavailable,
	http.StatusGatewayTimeout:     sentry.SpanStatusDeadlineExceeded,
}

func spanStatus(code int) sentry.SpanStatus {
	if s, ok := spanStatusByCode[code]; ok {
		return s
	}
	switch {
	case code < 400:
		return sentry.SpanStatusOK
	case code < 500:
		return sentry.SpanStatusInvalidArgument
	default:
		return sentry.SpanStatusInternalError
	}
}

// statusWriter records the response code for the transaction status.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
