// Package submitclient implements the submission side of the platform: a
// streaming multipart upload transport with progress reporting and a
// retrying progress controller suitable for driving an interactive
// submitter.
package submitclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// sendTimeout bounds a single upload attempt end to end. Large videos on
// slow links can legitimately take minutes.
const sendTimeout = 300 * time.Second

const attachmentField = "video"

// ErrorKind classifies transport failures for retry decisions.
type ErrorKind string

const (
	ErrKindTimeout     ErrorKind = "timeout"
	ErrKindUnreachable ErrorKind = "unreachable"
	ErrKindServer      ErrorKind = "server"
	ErrKindRejected    ErrorKind = "rejected"
)

// TransportError is returned for any failed Send. Transient errors are
// worth retrying with the same idempotency key; the rest are terminal.
type TransportError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Details    map[string]string
	Tip        string
	cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upload failed (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upload failed (%s): %s", e.Kind, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.cause
}

// Transient reports whether a retry with the same payload may succeed.
func (e *TransportError) Transient() bool {
	if e.Kind == ErrKindUnreachable {
		return true
	}
	switch e.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ServerResponse mirrors the submission success envelope.
type ServerResponse struct {
	Success       bool   `json:"success"`
	ApplicationID string `json:"applicationId"`
	VideoURL      string `json:"videoDriveLink"`
	Message       string `json:"message"`
}

type serverError struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
	Tip     string            `json:"tip"`
}

// Attachment names a local video file to stream.
type Attachment struct {
	Path        string
	ContentType string
}

// ProgressFunc receives the transfer percentage, 0 to 100, monotonic
// within one Send.
type ProgressFunc func(percent int)

// Transport streams multipart submissions to the API. It performs no
// retries itself.
type Transport struct {
	baseURL    string
	httpClient *http.Client
}

// TransportOption customizes a Transport.
type TransportOption func(*Transport)

// WithHTTPClient substitutes the underlying client, mainly for tests.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *Transport) {
		t.httpClient = c
	}
}

func NewTransport(baseURL string, opts ...TransportOption) *Transport {
	t := &Transport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: sendTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send streams one multipart submission. fields become form fields, the
// attachment (optional) streams under the video field without ever
// loading the whole file in memory. idempotencyKey, when set, is sent as
// the Idempotency-Key header so the server can replay a stored response.
func (t *Transport) Send(ctx context.Context, path string, fields map[string]string, attachment *Attachment, idempotencyKey string, onProgress ProgressFunc) (*ServerResponse, error) {
	body, contentType, total, closeBody, err := t.buildBody(fields, attachment)
	if err != nil {
		return nil, &TransportError{Kind: ErrKindRejected, Message: err.Error(), cause: err}
	}
	defer closeBody()

	reader := &progressReader{r: body, total: total, onProgress: onProgress}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, reader)
	if err != nil {
		return nil, &TransportError{Kind: ErrKindRejected, Message: err.Error(), cause: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = total
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, classifyNetworkError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, classifyNetworkError(err)
	}

	if resp.StatusCode >= 400 {
		var se serverError
		json.Unmarshal(payload, &se)
		if se.Message == "" {
			se.Message = http.StatusText(resp.StatusCode)
		}
		kind := ErrKindRejected
		if resp.StatusCode >= 500 {
			kind = ErrKindServer
		}
		return nil, &TransportError{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Message:    se.Message,
			Details:    se.Details,
			Tip:        se.Tip,
		}
	}

	var sr ServerResponse
	if err := json.Unmarshal(payload, &sr); err != nil {
		return nil, &TransportError{Kind: ErrKindServer, StatusCode: resp.StatusCode, Message: "malformed server response", cause: err}
	}
	return &sr, nil
}

// buildBody assembles prefix (fields and video part header) and trailer
// in memory and leaves the file itself to stream, so the total length is
// known up front without buffering the video.
func (t *Transport) buildBody(fields map[string]string, attachment *Attachment) (io.Reader, string, int64, func(), error) {
	prefix := &bytes.Buffer{}
	w := multipart.NewWriter(prefix)

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := w.WriteField(name, fields[name]); err != nil {
			return nil, "", 0, nil, err
		}
	}

	noop := func() {}
	if attachment == nil {
		if err := w.Close(); err != nil {
			return nil, "", 0, nil, err
		}
		return prefix, w.FormDataContentType(), int64(prefix.Len()), noop, nil
	}

	file, err := os.Open(attachment.Path)
	if err != nil {
		return nil, "", 0, nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, "", 0, nil, err
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`,
		attachmentField, filepath.Base(attachment.Path)))
	header.Set("Content-Type", attachment.ContentType)
	if _, err := w.CreatePart(header); err != nil {
		file.Close()
		return nil, "", 0, nil, err
	}

	trailer := "\r\n--" + w.Boundary() + "--\r\n"
	total := int64(prefix.Len()) + info.Size() + int64(len(trailer))
	body := io.MultiReader(prefix, file, strings.NewReader(trailer))
	return body, w.FormDataContentType(), total, func() { file.Close() }, nil
}

func classifyNetworkError(err error) *TransportError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TransportError{Kind: ErrKindTimeout, Message: "upload timed out", cause: err}
	}
	return &TransportError{Kind: ErrKindUnreachable, Message: "server unreachable", cause: err}
}

// progressReader reports percentage as bytes leave the client. Percent
// never decreases within one attempt.
type progressReader struct {
	r          io.Reader
	total      int64
	sent       int64
	last       int
	onProgress ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.sent += int64(n)
		p.report()
	}
	return n, err
}

func (p *progressReader) report() {
	if p.onProgress == nil || p.total <= 0 {
		return
	}
	percent := int(p.sent * 100 / p.total)
	if percent > 100 {
		percent = 100
	}
	if percent <= p.last {
		return
	}
	p.last = percent
	p.onProgress(percent)
}
