package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-scanner/internal/models"
	"alfredoptarigan/ats-scanner/internal/services"
)

type JDHandler struct {
	jdService services.JDService
}

func NewJDHandler(jdService services.JDService) *JDHandler {
	return &JDHandler{
		jdService: jdService,
	}
}

// HandleList handles GET /jd/list
func (h *JDHandler) HandleList(c *fiber.Ctx) error {
	names, err := h.jdService.List()
	if err != nil {
		log.Printf("❌ Failed to list job descriptions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "list_error",
			Message: "Could not list job descriptions.",
		})
	}

	files := make([]models.JDDescriptor, 0, len(names))
	for _, name := range names {
		files = append(files, models.JDDescriptor(name))
	}

	return c.JSON(models.JDListResponse{JDFiles: files})
}

// HandleContent handles GET /jd/content/:filename
func (h *JDHandler) HandleContent(c *fiber.Ctx) error {
	filename, err := url.PathUnescape(c.Params("filename"))
	if err != nil {
		filename = c.Params("filename")
	}

	content, err := h.jdService.Content(filename)
	if err != nil {
		code, description := fiber.StatusInternalServerError, fmt.Sprintf("Could not read job description '%s'.", filename)
		switch {
		case errors.Is(err, services.ErrInvalidFilename):
			code, description = fiber.StatusBadRequest, "Invalid filename provided."
		case errors.Is(err, services.ErrAccessDenied):
			code, description = fiber.StatusForbidden, "Access denied."
		case errors.Is(err, services.ErrFileNotFound):
			code, description = fiber.StatusNotFound, fmt.Sprintf("Job description '%s' not found.", filename)
		default:
			log.Printf("❌ Failed to read job description %s: %v", filename, err)
		}
		return c.Status(code).JSON(models.ErrorResponse{
			Description: description,
			Message:     description,
		})
	}

	return c.JSON(models.JDContentResponse{
		Filename: filename,
		Content:  content,
	})
}

// HandleSave handles POST /jd/save
func (h *JDHandler) HandleSave(c *fiber.Ctx) error {
	if !c.Is("json") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Request must be JSON",
		})
	}

	var req models.SaveJDRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or empty JSON data",
		})
	}

	filename, err := h.jdService.Save(req.Title, req.Experience, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrMissingJDFields) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing 'title' or 'description'",
			})
		}
		log.Printf("❌ Failed to save job description: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save job description due to an unexpected internal error.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.SaveJDResponse{
		Message:  "Job Description saved successfully!",
		Filename: filename,
	})
}

// HandleGenerate handles POST /jd/generate
func (h *JDHandler) HandleGenerate(c *fiber.Ctx) error {
	var req models.GenerateJDRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Title == "" || req.Experience == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please provide both job title and experience level.",
		})
	}

	description, err := h.jdService.Generate(c.UserContext(), req.Title, req.Experience)
	if err != nil {
		if errors.Is(err, services.ErrGeneratorOff) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Job description generation is not configured.",
			})
		}
		log.Printf("❌ Failed to generate job description: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to generate job description. Please try again.",
		})
	}

	return c.JSON(models.GenerateJDResponse{
		Title:       req.Title,
		Experience:  req.Experience,
		Description: description,
	})
}
