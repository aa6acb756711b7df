package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/donelist/backend/pkg/logger"
)

// HeaderRequestID is the header carrying the request correlation id, both
// inbound (honored when present) and on every response.
const HeaderRequestID = "X-Request-ID"

// Adapter derives a stdlib context from a fasthttp request so downstream
// layers get a deadline and the request id without touching fasthttp types.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach builds the per-request context: the configured timeout, plus the
// request id stored for loggers and echoed on the response header.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := requestID(ctx)
	ctx.Response.Header.Set(HeaderRequestID, reqID)

	return appLogger.ContextWithRequestID(stdCtx, reqID), cancel
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := string(ctx.Request.Header.Peek(HeaderRequestID)); strings.TrimSpace(header) != "" {
		return header
	}
	return uuid.NewString()
}
