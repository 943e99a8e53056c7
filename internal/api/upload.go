package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/vbonduro/cmsadmin/internal/domain"
)

// UploadFile is one file sent to POST /media/upload.
type UploadFile struct {
	Name     string
	MimeType string
	Size     int64
	Body     io.Reader
}

// countingReader reports the fraction of size read so far.
type countingReader struct {
	r        io.Reader
	read     int64
	size     int64
	progress func(float64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.progress != nil && c.size > 0 && n > 0 {
		f := float64(c.read) / float64(c.size)
		if f > 1 {
			f = 1
		}
		c.progress(f)
	}
	return n, err
}

// UploadMedia streams one file as multipart field "file". progress receives
// the fraction of the file sent, in (0, 1].
func (c *Client) UploadMedia(ctx context.Context, f UploadFile, progress func(float64)) (*domain.MediaItem, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	// The writer goroutine reads f.Body, so it must be finished before the
	// caller gets control back and closes the file.
	done := make(chan struct{})
	go func() {
		defer close(done)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
		ct := f.MimeType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		src := &countingReader{r: f.Body, size: f.Size, progress: progress}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	body, err := c.do(ctx, http.MethodPost, "/media/upload", nil, pr, mw.FormDataContentType())
	pr.Close()
	<-done
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", f.Name, err)
	}
	item, err := decodeUpload(body)
	if err != nil {
		return nil, err
	}
	if item.Name == "" {
		item.Name = f.Name
	}
	if item.MimeType == "" {
		item.MimeType = f.MimeType
	}
	if item.Size == 0 {
		item.Size = f.Size
	}
	return item, nil
}

// decodeUpload reads the upload response, which carries at least a url. The
// item may be at the top level or under "data", "file" or "media".
func decodeUpload(body []byte) (*domain.MediaItem, error) {
	body = bytes.TrimSpace(body)
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	raw := json.RawMessage(body)
	if _, ok := env["url"]; !ok {
		for _, key := range []string{"data", "file", "media"} {
			if inner, ok := env[key]; ok && len(inner) > 0 && inner[0] == '{' {
				raw = inner
				break
			}
		}
	}
	var item domain.MediaItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if strings.TrimSpace(item.URL) == "" {
		return nil, fmt.Errorf("upload response carried no url")
	}
	if item.ID == "" {
		item.ID = identityOf(item)
	}
	return &item, nil
}
