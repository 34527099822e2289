// Package ingest buffers multipart submission forms to local scratch
// storage. Video parts stream straight to disk so request memory stays
// flat regardless of file size.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	pkgerrors "github.com/saipavansp/incubez-talent-stories/pkg/errors"
)

// VideoField is the only multipart field that may carry a file.
const VideoField = "video"

// Limits bounds a single form read.
type Limits struct {
	MaxVideoBytes    int64
	MaxFieldBytes    int64
	AllowedMimeTypes []string
}

// BufferedVideo is a video part buffered to the scratch directory. The
// owner must either hand the file to the object store (which removes it)
// or call Discard.
type BufferedVideo struct {
	Path         string
	Size         int64
	MimeType     string
	OriginalName string
}

// Discard removes the buffered file. Safe to call after the file is gone.
func (b *BufferedVideo) Discard() error {
	if b == nil {
		return nil
	}
	if err := os.Remove(b.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Form is a fully read multipart submission.
type Form struct {
	Fields url.Values
	Video  *BufferedVideo
}

// Reader buffers videos under a scratch directory.
type Reader struct {
	scratchDir string
}

// New creates the scratch directory if needed.
func New(scratchDir string) (*Reader, error) {
	if scratchDir == "" {
		return nil, errors.New("scratch directory is required")
	}
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	return &Reader{scratchDir: scratchDir}, nil
}

// Read consumes the request body part by part. Text fields are collected
// into Fields; at most one file part is accepted, and only under the
// video field name. On any error the partially buffered file is removed
// before returning.
func (r *Reader) Read(req *http.Request, limits Limits) (*Form, error) {
	mr, err := req.MultipartReader()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request is not multipart/form-data")
	}

	form := &Form{Fields: url.Values{}}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			form.Video.Discard()
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading multipart body")
		}

		if part.FileName() == "" {
			if err := r.readField(form, part, limits); err != nil {
				form.Video.Discard()
				return nil, err
			}
			continue
		}

		if part.FormName() != VideoField || form.Video != nil {
			form.Video.Discard()
			part.Close()
			return nil, pkgerrors.New(pkgerrors.CodeUnexpectedFile,
				fmt.Sprintf("unexpected file field %q", part.FormName()))
		}

		video, err := r.bufferVideo(part, limits)
		if err != nil {
			return nil, err
		}
		form.Video = video
	}

	return form, nil
}

func (r *Reader) readField(form *Form, part *multipart.Part, limits Limits) error {
	defer part.Close()

	max := limits.MaxFieldBytes
	if max <= 0 {
		max = 1 << 20
	}
	data, err := io.ReadAll(io.LimitReader(part, max+1))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading form field")
	}
	if int64(len(data)) > max {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("field %q exceeds %d bytes", part.FormName(), max))
	}

	form.Fields.Add(part.FormName(), string(data))
	return nil
}

func (r *Reader) bufferVideo(part *multipart.Part, limits Limits) (*BufferedVideo, error) {
	defer part.Close()

	mimeType := part.Header.Get("Content-Type")
	if !mimeAllowed(mimeType, limits.AllowedMimeTypes) {
		return nil, pkgerrors.New(pkgerrors.CodeUnsupportedType,
			fmt.Sprintf("unsupported video type %q", mimeType))
	}

	path := r.scratchPath(part.FileName())
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating scratch file")
	}

	written, err := io.Copy(file, io.LimitReader(part, limits.MaxVideoBytes+1))
	closeErr := file.Close()
	if err != nil || closeErr != nil {
		os.Remove(path)
		if err == nil {
			err = closeErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "buffering video")
	}
	if written > limits.MaxVideoBytes {
		os.Remove(path)
		return nil, pkgerrors.New(pkgerrors.CodeTooLarge,
			fmt.Sprintf("video exceeds the %dMB limit", limits.MaxVideoBytes/(1024*1024))).
			WithDetails(map[string]string{
				"video": "Please compress your video before uploading. Recommended: 2-5 minutes at 720p or 1080p.",
			})
	}

	return &BufferedVideo{
		Path:         path,
		Size:         written,
		MimeType:     mimeType,
		OriginalName: part.FileName(),
	}, nil
}

// scratchPath mirrors the upload naming convention: field name, millisecond
// timestamp and a random suffix, keeping the original extension.
func (r *Reader) scratchPath(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("%s-%d-%09d%s", VideoField, time.Now().UnixMilli(), rand.Int63n(int64(1e9)), ext)
	return filepath.Join(r.scratchDir, name)
}

func mimeAllowed(mimeType string, allowed []string) bool {
	base := mimeType
	if idx := strings.IndexByte(base, ';'); idx >= 0 {
		base = strings.TrimSpace(base[:idx])
	}
	for _, candidate := range allowed {
		if strings.EqualFold(base, candidate) {
			return true
		}
	}
	return false
}
