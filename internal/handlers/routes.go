package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Register mounts every endpoint on app. The paths are relative to the
// server root because the scan front-end builds them from API_BASE_URL.
func Register(app *fiber.App, jd *JDHandler, scan *ScanHandler, upload *UploadHandler) {
	app.Get("/", HandleHealth)

	jdGroup := app.Group("/jd")
	jdGroup.Get("/list", jd.HandleList)
	jdGroup.Get("/content/:filename", jd.HandleContent)
	jdGroup.Post("/save", jd.HandleSave)
	jdGroup.Post("/generate", jd.HandleGenerate)

	scanGroup := app.Group("/scan")
	scanGroup.Post("/batch", scan.HandleBatchScan)
	scanGroup.Get("/runs", scan.HandleRecentRuns)

	resumes := app.Group("/resumes")
	resumes.Post("/upload", upload.HandleUpload)
	resumes.Get("/download/:filename", upload.HandleDownload)
}

// HandleHealth handles GET /
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "ATS Backend is running",
	})
}
