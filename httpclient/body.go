package httpclient

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	json "github.com/goccy/go-json"
)

// ErrUnreplayableBody is returned for a body that cannot be read twice. A
// body may be sent once per redirect hop, so it must be replayable.
var ErrUnreplayableBody = errors.New("httpclient: request body is a one-shot io.Reader, use []byte or an io.ReadSeeker")

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeOcts = "application/octet-stream"
)

// encodeBody turns a resource payload into bytes and a default content type.
//
// Supported inputs:
//   - nil: no body
//   - string: text/plain
//   - []byte and io.ReadSeeker: application/octet-stream
//   - url.Values: form encoded
//   - *Multipart: multipart/form-data
//   - anything else: JSON
func encodeBody(v any) ([]byte, string, error) {
	switch body := v.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(body), contentTypeText, nil
	case []byte:
		return body, contentTypeOcts, nil
	case url.Values:
		return []byte(body.Encode()), contentTypeForm, nil
	case *Multipart:
		return body.encode()
	case io.ReadSeeker:
		if _, err := body.Seek(0, io.SeekStart); err != nil {
			return nil, "", fmt.Errorf("httpclient: rewind body: %w", err)
		}
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, "", fmt.Errorf("httpclient: read body: %w", err)
		}
		return data, contentTypeOcts, nil
	case io.Reader:
		return nil, "", ErrUnreplayableBody
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("httpclient: encode body: %w", err)
		}
		return data, contentTypeJSON, nil
	}
}
