// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/session"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/models"
)

// RequestStage transforms a request before it is sent.
type RequestStage func(models.Request) models.Request

// ResponseStage inspects or transforms a response. Returning an error stops
// the remaining stages.
type ResponseStage func(models.Response) (models.Response, error)

// Pipeline runs request stages, the transport, then response stages, each
// in the order given at construction.
type Pipeline struct {
	transport      Transport
	requestStages  []RequestStage
	responseStages []ResponseStage
}

// NewPipeline composes a pipeline. The stage lists are copied.
func NewPipeline(transport Transport, requestStages []RequestStage, responseStages []ResponseStage) *Pipeline {
	return &Pipeline{
		transport:      transport,
		requestStages:  append([]RequestStage(nil), requestStages...),
		responseStages: append([]ResponseStage(nil), responseStages...),
	}
}

// Execute sends req through the pipeline.
func (p *Pipeline) Execute(ctx context.Context, req models.Request) (models.Response, error) {
	if req.Headers == nil {
		req.Headers = http.Header{}
	}
	for _, stage := range p.requestStages {
		req = stage(req)
	}

	resp, err := p.transport.Do(ctx, req)
	if err != nil {
		return models.Response{}, err
	}

	for _, stage := range p.responseStages {
		if resp, err = stage(resp); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// WithDefaultHeaders sets the API version and the client app version.
func WithDefaultHeaders(appVersion string) RequestStage {
	return func(req models.Request) models.Request {
		req.Headers = cloneHeaders(req.Headers)
		req.Headers.Set("Accept", "application/json")
		req.Headers.Set("X-Kinvey-Api-Version", "4")
		if appVersion != "" {
			req.Headers.Set("X-Kinvey-Client-App-Version", appVersion)
		}
		return req
	}
}

// WithAuth authorizes with the session token while one is held, and with
// Basic app credentials otherwise.
func WithAuth(sess *session.Session, appKey, appSecret string) RequestStage {
	basic := "Basic " + base64.StdEncoding.EncodeToString([]byte(appKey+":"+appSecret))
	return func(req models.Request) models.Request {
		req.Headers = cloneHeaders(req.Headers)
		if token := sess.Token(); token != "" {
			req.Headers.Set("Authorization", "Bearer "+token)
		} else {
			req.Headers.Set("Authorization", basic)
		}
		return req
	}
}

// WithRequestID tags the request with a fresh X-Request-ID.
func WithRequestID(ids *utils.UUIDGenerator) RequestStage {
	return func(req models.Request) models.Request {
		req.Headers = cloneHeaders(req.Headers)
		if req.Headers.Get("X-Request-ID") == "" {
			req.Headers.Set("X-Request-ID", ids.Generate())
		}
		return req
	}
}

// RevokeOnUnauthorized drops the session when the backend answers 401, so
// later requests fall back to app credentials.
func RevokeOnUnauthorized(sess *session.Session) ResponseStage {
	return func(resp models.Response) (models.Response, error) {
		if resp.StatusCode == http.StatusUnauthorized {
			sess.Revoke()
		}
		return resp, nil
	}
}

// ParseErrors turns a non-2xx response into an *errs.Error built from the
// {"error", "description", "debug"} body.
func ParseErrors(resp models.Response) (models.Response, error) {
	if resp.IsSuccess() {
		return resp, nil
	}

	var body utils.ErrorBody
	_ = json.Unmarshal(resp.Data, &body)
	return resp, errs.FromStatus(resp.StatusCode, body.Error, body.Description, body.Debug)
}

// DefaultPipeline is the pipeline every client uses.
func DefaultPipeline(transport Transport, sess *session.Session, appKey, appSecret, appVersion string) *Pipeline {
	return NewPipeline(transport,
		[]RequestStage{
			WithDefaultHeaders(appVersion),
			WithAuth(sess, appKey, appSecret),
			WithRequestID(utils.NewUUIDGenerator()),
		},
		[]ResponseStage{
			RevokeOnUnauthorized(sess),
			ParseErrors,
		},
	)
}

func cloneHeaders(h http.Header) http.Header {
	if h == nil {
		return http.Header{}
	}
	return h.Clone()
}
