package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-scanner/internal/models"
	"alfredoptarigan/ats-scanner/internal/services"
)

type UploadHandler struct {
	ingestor       services.ResumeIngestor
	storageService services.StorageService
}

func NewUploadHandler(
	ingestor services.ResumeIngestor,
	storageService services.StorageService,
) *UploadHandler {
	return &UploadHandler{
		ingestor:       ingestor,
		storageService: storageService,
	}
}

// HandleUpload handles POST /resumes/upload
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing 'files' part in the multipart request",
		})
	}

	headers, exists := form.File["files"]
	if !exists {
		// Parts with an empty filename are parsed as plain values.
		if _, blank := form.Value["files"]; blank {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No selected files to upload",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing 'files' part in the multipart request",
		})
	}

	files := make([]services.IngestFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}
		files = append(files, ingestFileFromHeader(fh))
	}
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No selected files to upload",
		})
	}

	log.Printf("📥 Received %d file(s) for upload", len(files))
	result := h.ingestor.Ingest(c.UserContext(), files)

	resp := models.UploadResponse{}
	status := fiber.StatusOK
	if len(result.Uploaded) > 0 {
		resp.Success = &models.UploadSuccess{
			Message: fmt.Sprintf("%d file(s) processed and ready for AI validation.", len(result.Uploaded)),
			Files:   result.Uploaded,
		}
	}
	if len(result.Errors) > 0 {
		resp.Errors = result.Errors
		status = fiber.StatusBadRequest
		if len(result.Uploaded) > 0 {
			status = fiber.StatusMultiStatus
		}
	}
	if len(result.Uploaded) == 0 && len(result.Errors) == 0 {
		resp.Info = &models.UploadInfo{Message: "No valid files were processed."}
		status = fiber.StatusBadRequest
	}

	log.Printf("✅ Upload finished. Success: %d, Errors: %d, Status: %d", len(result.Uploaded), len(result.Errors), status)
	return c.Status(status).JSON(resp)
}

// HandleDownload handles GET /resumes/download/:filename
func (h *UploadHandler) HandleDownload(c *fiber.Ctx) error {
	filename, err := url.PathUnescape(c.Params("filename"))
	if err != nil {
		filename = c.Params("filename")
	}

	path, err := h.storageService.ResolveResume(filename)
	if err != nil {
		code, description := fiber.StatusInternalServerError, "Internal server error while serving file."
		switch {
		case errors.Is(err, services.ErrInvalidFilename):
			code, description = fiber.StatusBadRequest, "Filename invalid after securing."
		case errors.Is(err, services.ErrAccessDenied):
			code, description = fiber.StatusForbidden, "Access denied."
		case errors.Is(err, services.ErrFileNotFound):
			code, description = fiber.StatusNotFound, fmt.Sprintf("File '%s' not found.", filename)
		default:
			log.Printf("❌ Failed to resolve resume %s: %v", filename, err)
		}
		return c.Status(code).JSON(models.ErrorResponse{
			Description: description,
			Message:     description,
		})
	}

	return c.Download(path, filename)
}

func ingestFileFromHeader(fh *multipart.FileHeader) services.IngestFile {
	return services.IngestFile{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
