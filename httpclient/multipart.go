package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Multipart is a multipart/form-data request body. It is encoded afresh for
// every redirect hop, so files given by path are reopened and in-memory
// content is rewound each time.
//
//	body := httpclient.NewMultipart().
//	    Field("title", "Q4 Report").
//	    File("document", "/path/to/report.pdf")
//	resp, err := res.Post(ctx, body)
type Multipart struct {
	fields []formField
	files  []FileUpload
}

type formField struct {
	key, value string
}

// FileUpload is one file part. Exactly one of Path and Content is used,
// Path taking precedence.
type FileUpload struct {
	FieldName string
	FileName  string

	Path    string
	Content io.ReadSeeker
}

func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field adds a form field. Fields are written in the order added.
func (m *Multipart) Field(key, value string) *Multipart {
	m.fields = append(m.fields, formField{key: key, value: value})
	return m
}

// File adds a file read from disk when the body is encoded.
func (m *Multipart) File(fieldName, path string) *Multipart {
	m.files = append(m.files, FileUpload{
		FieldName: fieldName,
		FileName:  filepath.Base(path),
		Path:      path,
	})
	return m
}

// FileContent adds a file from in-memory content.
func (m *Multipart) FileContent(fieldName, fileName string, content io.ReadSeeker) *Multipart {
	m.files = append(m.files, FileUpload{
		FieldName: fieldName,
		FileName:  fileName,
		Content:   content,
	})
	return m
}

func (m *Multipart) encode() ([]byte, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, f := range m.fields {
		if err := writer.WriteField(f.key, f.value); err != nil {
			return nil, "", err
		}
	}

	for _, file := range m.files {
		part, err := writer.CreateFormFile(file.FieldName, file.FileName)
		if err != nil {
			return nil, "", err
		}
		if err := file.copyTo(part); err != nil {
			return nil, "", fmt.Errorf("httpclient: multipart file %q: %w", file.FieldName, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body.Bytes(), writer.FormDataContentType(), nil
}

func (f FileUpload) copyTo(w io.Writer) error {
	if f.Path != "" {
		file, err := os.Open(f.Path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(w, file)
		return err
	}

	if f.Content == nil {
		return nil
	}
	if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := io.Copy(w, f.Content)
	return err
}
