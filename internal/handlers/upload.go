package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/portfolio-site/backend/internal/models"
)

const (
	// multipartMemory is the part of a multipart form kept in memory, the rest spills to disk
	multipartMemory = 32 << 20
	filesField      = "files"
)

var errNoFiles = errors.New("at least one file is required")

// readCandidateFiles reads every file of the "files" field.
// Parts without a usable Content-Type are sniffed from their content.
func readCandidateFiles(r *http.Request) ([]models.CandidateFile, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}
	headers := r.MultipartForm.File[filesField]
	if len(headers) == 0 {
		return nil, errNoFiles
	}

	files := make([]models.CandidateFile, 0, len(headers))
	for _, header := range headers {
		file, err := readCandidateFile(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func readCandidateFile(header *multipart.FileHeader) (models.CandidateFile, error) {
	f, err := header.Open()
	if err != nil {
		return models.CandidateFile{}, fmt.Errorf("failed to open %q: %w", header.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.CandidateFile{}, fmt.Errorf("failed to read %q: %w", header.Filename, err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	return models.CandidateFile{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
