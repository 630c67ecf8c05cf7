package sharedhttp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"mugen/internal/domain"
)

const UserAgent = "mugen"

var Transport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ReadBufferSize:        65536,
	WriteBufferSize:       65536,
	TLSClientConfig: &tls.Config{
		MinVersion: tls.VersionTLS12,
	},
}

// NewClient returns a client on the shared transport.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: Transport,
	}
}

// StatusError is returned for any non-200 answer.
type StatusError struct {
	Code        int
	Recoverable bool
	msg         string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status code %d", e.msg, e.Code)
}

func CheckStatusCode(statusCode int) error {
	switch statusCode {
	case http.StatusOK:

	case http.StatusUnauthorized, http.StatusForbidden:
		return &StatusError{Code: statusCode, msg: "access denied"}

	case http.StatusMethodNotAllowed:
		return &StatusError{Code: statusCode, msg: "method not allowed"}

	case http.StatusNotFound:
		return &StatusError{Code: statusCode, Recoverable: true, msg: "not found"}

	case http.StatusTooManyRequests:
		return &StatusError{Code: statusCode, Recoverable: true, msg: "rate limited"}

	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusInternalServerError:
		return &StatusError{Code: statusCode, Recoverable: true, msg: "server error"}

	default:
		return &StatusError{Code: statusCode, msg: "unexpected response"}
	}

	return nil
}

// IsRecoverable reports whether repeating the request may succeed. Transport
// failures are recoverable; status errors carry their own verdict.
func IsRecoverable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Recoverable
	}
	return errors.Is(err, domain.ErrTransport)
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}

// ExecRequest sends req and checks the status code. Connection level failures
// are wrapped in domain.ErrTransport. The caller closes the body on success.
func ExecRequest(client *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	if err := CheckStatusCode(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}
