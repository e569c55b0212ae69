package handler

import (
	"errors"
	"mime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"patientdocs/internal/service"
)

// UploadDocument stores a patient PDF (multipart/form-data, fields: file, patient_id).
// @Summary Upload a PDF for a patient
// @Accept mpfd
// @Produce json
// @Router /documents [post]
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		patientID := c.FormValue("patient_id")
		if patientID == "" {
			return writeError(c, fiber.StatusBadRequest, "PATIENT_ID_REQUIRED", "patient_id is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docSvc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size, patientID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidContentType):
				return writeError(c, fiber.StatusBadRequest, "INVALID_CONTENT_TYPE", service.ErrInvalidContentType.Error())
			case errors.Is(err, service.ErrFileTooLarge):
				return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE", service.ErrFileTooLarge.Error())
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments returns document metadata for a patient (query: patient_id).
// @Summary List documents for a patient
// @Produce json
// @Router /documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		patientID := c.Query("patient_id")
		if patientID == "" {
			return writeError(c, fiber.StatusBadRequest, "PATIENT_ID_REQUIRED", "patient_id is required")
		}

		docs, err := docSvc.ListByPatient(c.UserContext(), patientID)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(docs)
	}
}

// DownloadDocument streams the PDF content under the document's original filename.
// @Summary Download a document
// @Produce application/pdf
// @Router /documents/{id}/download [get]
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		rc, lookup, err := docSvc.Download(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		// FormatMediaType quotes and escapes the user-supplied filename
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": lookup.Filename}))
		return c.SendStream(rc)
	}
}

// DeleteDocument removes a document record and its stored bytes.
// @Summary Delete a document
// @Produce json
// @Router /documents/{id} [delete]
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
