package webhook

import "time"

type sendOptions struct {
	timeout         time.Duration
	headers         map[string]string
	signatureSecret string
}

func defaultSendOptions() *sendOptions {
	return &sendOptions{
		timeout: 10 * time.Second,
		headers: make(map[string]string),
	}
}

// SendOption configures a single Send.
type SendOption func(*sendOptions)

// WithTimeout bounds the request. Default is 10 seconds.
func WithTimeout(timeout time.Duration) SendOption {
	return func(o *sendOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) SendOption {
	return func(o *sendOptions) {
		if key != "" {
			o.headers[key] = value
		}
	}
}

// WithSignature signs the payload with secret. Empty secrets are ignored.
func WithSignature(secret string) SendOption {
	return func(o *sendOptions) {
		o.signatureSecret = secret
	}
}
