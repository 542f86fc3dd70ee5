package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

func encodeUpload(files []UploadFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to add %s to upload: %w", f.Filename, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write %s to upload: %w", f.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish upload body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
