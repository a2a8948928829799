package httpclient

import (
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/config"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/requestctx"
)

// RequestIDHeader carries the caller's request ID to downstream services.
const RequestIDHeader = "X-Request-ID"

// New creates a pooled HTTP client. Outgoing requests carry the request ID
// and trace context found on their context.
func New(cfg config.HTTPClientConfig) *http.Client {
	applyDefaults(&cfg)

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &http.Client{
		Transport: NewPropagatingTransport(transport),
		Timeout:   cfg.ResponseTimeout,
	}
}

func applyDefaults(cfg *config.HTTPClientConfig) {
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = 10
	}
	if cfg.IdleConnTimeout <= 0 {
		cfg.IdleConnTimeout = 90 * time.Second
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.TLSHandshakeTimeout <= 0 {
		cfg.TLSHandshakeTimeout = 5 * time.Second
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 30 * time.Second
	}
}

// propagatingTransport copies request-scoped identifiers onto outgoing headers.
type propagatingTransport struct {
	base http.RoundTripper
}

// NewPropagatingTransport wraps base. A nil base uses http.DefaultTransport.
func NewPropagatingTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &propagatingTransport{base: base}
}

func (t *propagatingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(ctx)

	if id := requestctx.RequestID(ctx); id != "" && req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return t.base.RoundTrip(req)
}
