package httpclient

import (
	"encoding/xml"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/kroma-labs/resourceful-go/resource"
)

var _ resource.Response = (*Response)(nil)

// Response wraps an *http.Response.
//
// The body is read lazily and cached, so Body, String and Decode may be called
// any number of times. Call Close when the body is not needed.
type Response struct {
	raw *http.Response

	request *http.Request

	body     []byte
	bodyRead bool
	bodyErr  error

	curlCommand string
}

// HTTP returns the wrapped response.
func (r *Response) HTTP() *http.Response {
	return r.raw
}

// Request returns the outgoing request that produced this response.
func (r *Response) Request() *http.Request {
	return r.request
}

// Code returns the HTTP status code.
func (r *Response) Code() int {
	return r.raw.StatusCode
}

// Header returns the response headers. Keys are canonical MIME header keys.
func (r *Response) Header() map[string][]string {
	return r.raw.Header
}

// IsRedirect reports whether the status is 301, 302, 303, 307 or 308.
func (r *Response) IsRedirect() bool {
	switch r.raw.StatusCode {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

// IsPermanentRedirect reports whether the status is 301 or 308.
func (r *Response) IsPermanentRedirect() bool {
	return r.raw.StatusCode == http.StatusMovedPermanently ||
		r.raw.StatusCode == http.StatusPermanentRedirect
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.raw.StatusCode >= 200 && r.raw.StatusCode < 300
}

// IsError reports a 4xx or 5xx status.
func (r *Response) IsError() bool {
	return r.raw.StatusCode >= 400
}

// Body reads and caches the response body.
func (r *Response) Body() ([]byte, error) {
	if r.bodyRead {
		return r.body, r.bodyErr
	}
	r.bodyRead = true

	if r.raw.Body == nil {
		return nil, nil
	}

	defer r.raw.Body.Close()
	r.body, r.bodyErr = io.ReadAll(r.raw.Body)
	return r.body, r.bodyErr
}

// String returns the cached body as a string.
func (r *Response) String() (string, error) {
	body, err := r.Body()
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Decode unmarshals the body into v, using XML for XML content types and
// JSON otherwise.
func (r *Response) Decode(v any) error {
	body, err := r.Body()
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return decodeBody(body, r.raw.Header.Get("Content-Type"), v)
}

// Close drains and closes the body if it has not been read.
func (r *Response) Close() error {
	if r.bodyRead || r.raw.Body == nil {
		return nil
	}
	r.bodyRead = true
	_, _ = io.Copy(io.Discard, r.raw.Body)
	return r.raw.Body.Close()
}

// CurlCommand returns the equivalent curl command when WithGenerateCurl is on.
func (r *Response) CurlCommand() string {
	return r.curlCommand
}

func decodeBody(body []byte, contentType string, target any) error {
	isXML := strings.Contains(contentType, "application/xml") ||
		strings.Contains(contentType, "text/xml")
	if isXML {
		return xml.Unmarshal(body, target)
	}
	return json.Unmarshal(body, target)
}
