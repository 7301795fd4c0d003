// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/models"
)

type httpTransport struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPTransport returns a resty-backed [Transport] rooted at address.
// An address without a scheme gets "http://".
func NewHTTPTransport(address string, timeout time.Duration, log *logger.Logger) (Transport, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, errs.Wrap(errs.KindMissingConfiguration, err, "invalid backend address")
	}

	return &httpTransport{
		client: utils.NewHTTPClient(baseURL, timeout),
		logger: log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (t *httpTransport) Do(ctx context.Context, req models.Request) (models.Response, error) {
	r := t.client.R().
		SetContext(ctx).
		SetQueryParams(req.Query)
	for name, values := range req.Headers {
		r.SetHeaderMultiValues(map[string][]string{name: values})
	}
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		t.logger.Warn().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Msg("request failed")
		return models.Response{}, classifyTransportError(err)
	}

	return models.Response{
		StatusCode: resp.StatusCode(),
		Headers:    resp.Header(),
		Data:       resp.Body(),
	}, nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.KindTimeout, err, "request timed out")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errs.Wrap(errs.KindTimeout, err, "request timed out")
	}
	return errs.Wrap(errs.KindNetworkConnection, err, "no network connection")
}
