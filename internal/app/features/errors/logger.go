package errors

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs failed requests and writes the matching JSON response.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger returns an ErrorLogger writing to logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{log: logger}
}

func requestFields(r *http.Request) []zap.Field {
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	}
}

// LogServerError logs err at error level and responds 500 with userMsg.
// The underlying error is never sent to the client.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string, fields ...zap.Field) {
	fs := append(requestFields(r), zap.Error(err))
	e.log.Error(msg, append(fs, fields...)...)
	if userMsg == "" {
		userMsg = "A server error occurred."
	}
	WriteDetail(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs at info level and responds 400 with userMsg as a
// non-field error.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string, fields ...zap.Field) {
	fs := requestFields(r)
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	e.log.Info(msg, append(fs, fields...)...)
	WriteField(w, NonFieldErrors, userMsg)
}
