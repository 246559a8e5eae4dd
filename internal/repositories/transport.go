package repositories

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// LoggingTransport logs every tracker round trip at debug level
type LoggingTransport struct {
	Logger  zerolog.Logger
	Wrapped http.RoundTripper
}

func (t *LoggingTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	start := time.Now()
	t.Logger.Debug().Str("method", request.Method).Str("url", request.URL.String()).Msg("sending tracker request")

	response, err := t.wrapped().RoundTrip(request)
	if err != nil {
		t.Logger.Debug().Err(err).Str("url", request.URL.String()).Dur("elapsed", time.Since(start)).
			Msg("tracker request failed")
		return nil, err
	}

	t.Logger.Debug().Int("status", response.StatusCode).Str("url", request.URL.String()).
		Dur("elapsed", time.Since(start)).Msg("got tracker response")
	return response, nil
}

func (t *LoggingTransport) wrapped() http.RoundTripper {
	if t.Wrapped != nil {
		return t.Wrapped
	}
	return http.DefaultTransport
}
