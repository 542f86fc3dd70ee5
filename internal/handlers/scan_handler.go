package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-scanner/internal/models"
	"alfredoptarigan/ats-scanner/internal/services"
)

const defaultRunLimit = 20

type ScanHandler struct {
	scanner services.ScannerService
}

func NewScanHandler(scanner services.ScannerService) *ScanHandler {
	return &ScanHandler{
		scanner: scanner,
	}
}

// HandleBatchScan handles POST /scan/batch
func (h *ScanHandler) HandleBatchScan(c *fiber.Ctx) error {
	if !c.Is("json") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Request must be JSON",
		})
	}

	if len(c.Body()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Empty JSON body",
		})
	}

	var req models.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	jdFilename := strings.TrimSpace(req.JDFilename)
	if jdFilename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing 'jd_filename'",
		})
	}

	log.Printf("📥 Batch scan requested for %s", jdFilename)

	outcome, err := h.scanner.BatchScan(c.UserContext(), jdFilename)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFilename):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid JD filename format.",
			})
		case errors.Is(err, services.ErrAccessDenied):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied to JD.",
			})
		case errors.Is(err, services.ErrJDNotFound):
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error:   "jd_not_found",
				Message: fmt.Sprintf("JD '%s' not found.", jdFilename),
			})
		case errors.Is(err, services.ErrJDEmpty):
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error:   "jd_empty",
				Message: fmt.Sprintf("JD file '%s' is empty.", jdFilename),
			})
		}

		log.Printf("❌ Batch scan for %s failed: %v", jdFilename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "resume_list_error",
			Message: "Could not list parsed resumes.",
		})
	}

	return c.Status(outcome.StatusCode).JSON(outcome.Response)
}

// HandleRecentRuns handles GET /scan/runs
func (h *ScanHandler) HandleRecentRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultRunLimit)
	if limit <= 0 || limit > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be between 1 and 100",
		})
	}

	runs, err := h.scanner.RecentRuns(limit)
	if err != nil {
		log.Printf("❌ Failed to load scan runs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load scan runs",
		})
	}

	if runs == nil {
		runs = []models.ScanRun{}
	}

	return c.JSON(fiber.Map{
		"runs": runs,
	})
}
