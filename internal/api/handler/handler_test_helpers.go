package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"

	"github.com/go-chi/chi/v5"

	"github.com/roamio/backupd/internal/api/response"
)

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newUploadRequest creates a multipart request carrying one file in the
// "backup" field.
func newUploadRequest(target, filename string, content []byte) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("backup", filename)
	part.Write(content)
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, target, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

// newTypedUploadRequest is newUploadRequest with an explicit Content-Type on
// the file part.
func newTypedUploadRequest(target, filename, contentType string, content []byte) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="backup"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, _ := mw.CreatePart(header)
	part.Write(content)
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, target, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeEnvelope parses the JSON response body.
func decodeEnvelope(rec *httptest.ResponseRecorder) response.Envelope {
	var env response.Envelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	return env
}
