package responder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/drblury/botweaver/jsonutil"
)

// ReadRequestBody decodes the JSON request body into v. Malformed content is
// answered with 400, and a body cut off by http.MaxBytesReader with 413.
func (r *Responder) ReadRequestBody(w http.ResponseWriter, req *http.Request, v any) bool {
	err := r.decodeRequestBody(req, v)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		r.HandlePayloadTooLarge(w, req, fmt.Errorf("request body exceeds %d bytes", maxErr.Limit))
		return false
	}
	r.HandleBadRequestError(w, req, err, "failed to parse request body")
	return false
}

func (r *Responder) decodeRequestBody(req *http.Request, v any) error {
	if req == nil || req.Body == nil {
		return errors.New("request body is required")
	}
	if err := jsonutil.Decode(req.Body, v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func requestInstance(req *http.Request) string {
	if req == nil || req.URL == nil {
		return ""
	}
	return req.URL.RequestURI()
}

func requestContext(req *http.Request) context.Context {
	if req == nil {
		return context.Background()
	}
	return req.Context()
}
