package handler

import (
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"scopedocs/internal/docerr"
	"scopedocs/internal/model"
	"scopedocs/internal/scope"
	"scopedocs/internal/service"
)

// documentListResponse is the body of every listing endpoint.
type documentListResponse struct {
	Data  []model.DocumentSummary `json:"data"`
	Total int                     `json:"total"`
}

// importRequest selects library documents. Identifiers may be numbers or strings.
type importRequest struct {
	CycleID   any      `json:"cycle_id"`
	ProgramID any      `json:"program_id"`
	IDs       []string `json:"ids"`
}

func listResponse(docs []model.DocumentSummary) documentListResponse {
	if docs == nil {
		docs = []model.DocumentSummary{}
	}
	return documentListResponse{Data: docs, Total: len(docs)}
}

// scopeFromRequest reads the namespace path parameter and its scope query parameters.
func scopeFromRequest(c *fiber.Ctx) (scope.Scope, error) {
	ns, err := scope.ParseNamespace(c.Params("namespace"))
	if err != nil {
		return nil, err
	}
	s, err := scope.Parse(ns, func(name string) string { return c.Query(name) })
	if err != nil {
		return nil, err
	}
	if _, err := s.Key(); err != nil {
		return nil, err
	}
	return s, nil
}

// ListDocuments lists documents filed under a scope.
//
// @Summary  List documents in a scope
// @Tags     documents
// @Produce  json
// @Param    namespace     path  string true  "syllabus, faculty, section or library"
// @Param    cycle_id      query string true  "Cycle"
// @Param    program_id    query string false "Program (syllabus, library)"
// @Param    course_id     query string false "Course (syllabus)"
// @Param    syllabus_id   query string false "Syllabus (syllabus)"
// @Param    faculty_key   query string false "Faculty member (faculty)"
// @Param    appendix      query string false "Appendix letter (section)"
// @Param    section_title query string false "Section title (section)"
// @Success  200 {object} documentListResponse
// @Failure  400 {object} listErrorPayload
// @Failure  500 {object} listErrorPayload
// @Router   /namespaces/{namespace}/documents [get]
func ListDocuments(catalog service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := scopeFromRequest(c)
		if err != nil {
			return writeListError(c, err)
		}
		docs, err := catalog.ListDocuments(c.UserContext(), s)
		if err != nil {
			return writeListError(c, err)
		}
		return c.JSON(listResponse(docs))
	}
}

// UploadDocuments adds files to a scope. Files already stored under the scope
// with the same name, last-modified time and size are skipped.
//
// @Summary  Upload documents into a scope
// @Tags     documents
// @Accept   multipart/form-data
// @Produce  json
// @Param    namespace     path     string true  "syllabus, faculty, section or library"
// @Param    files         formData file   true  "Files to store"
// @Param    last_modified formData int    false "Last-modified time of each file in ms, in file order"
// @Success  201 {object} documentListResponse
// @Failure  400 {object} listErrorPayload
// @Failure  500 {object} listErrorPayload
// @Router   /namespaces/{namespace}/documents [post]
func UploadDocuments(catalog service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := scopeFromRequest(c)
		if err != nil {
			return writeListError(c, err)
		}

		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "multipart form with files is required")
		}
		files, err := readFiles(form.File["files"], form.Value["last_modified"], time.Now())
		if err != nil {
			return writeListError(c, err)
		}

		docs, err := catalog.AddFiles(c.UserContext(), s, files)
		if err != nil {
			return writeListError(c, err)
		}
		status := fiber.StatusOK
		if len(files) > 0 {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(listResponse(docs))
	}
}

// readFiles turns uploaded parts into files. lastModified is matched by index;
// files without an entry are stamped with now.
func readFiles(headers []*multipart.FileHeader, lastModified []string, now time.Time) ([]model.File, error) {
	files := make([]model.File, 0, len(headers))
	for i, fh := range headers {
		lm := now.UnixMilli()
		if i < len(lastModified) && lastModified[i] != "" {
			v, err := strconv.ParseInt(lastModified[i], 10, 64)
			if err != nil {
				return nil, docerr.Validation("invalid last_modified for " + fh.Filename)
			}
			lm = v
		}

		f, err := fh.Open()
		if err != nil {
			return nil, docerr.Validation("cannot open uploaded file " + fh.Filename)
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, docerr.Validation("cannot read uploaded file " + fh.Filename)
		}

		files = append(files, model.File{
			Name:           fh.Filename,
			MimeType:       fh.Header.Get("Content-Type"),
			Size:           int64(len(content)),
			LastModifiedMs: lm,
			Content:        content,
		})
	}
	return files, nil
}

// ImportDocuments copies selected evidence-library documents into a scope.
//
// @Summary  Import library documents into a scope
// @Tags     documents
// @Accept   json
// @Produce  json
// @Param    namespace path string        true "syllabus, faculty, section or library"
// @Param    body      body importRequest true "Session and selected document IDs"
// @Success  200 {object} documentListResponse
// @Failure  400 {object} listErrorPayload
// @Failure  500 {object} listErrorPayload
// @Router   /namespaces/{namespace}/imports [post]
func ImportDocuments(bridge service.LibraryBridge) fiber.Handler {
	return func(c *fiber.Ctx) error {
		target, err := scopeFromRequest(c)
		if err != nil {
			return writeListError(c, err)
		}
		var req importRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		session := scope.NewSession(req.CycleID, req.ProgramID)
		docs, err := bridge.ImportSelected(c.UserContext(), session, req.IDs, target)
		if err != nil {
			return writeListError(c, err)
		}
		return c.JSON(listResponse(docs))
	}
}

// BrowseLibrary lists the evidence library of a cycle and program.
//
// @Summary  Browse the evidence library
// @Tags     library
// @Produce  json
// @Param    cycle_id   query string true "Cycle"
// @Param    program_id query string true "Program"
// @Success  200 {object} documentListResponse
// @Failure  400 {object} listErrorPayload
// @Router   /library/documents [get]
func BrowseLibrary(bridge service.LibraryBridge) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := scope.NewSession(c.Query(scope.ParamCycleID), c.Query(scope.ParamProgramID))
		docs, err := bridge.Browse(c.UserContext(), session)
		if err != nil {
			return writeListError(c, err)
		}
		return c.JSON(listResponse(docs))
	}
}

// DownloadDocument streams a stored payload.
//
// @Summary  Download document content
// @Tags     documents
// @Produce  octet-stream
// @Param    id  path string true "Document ID"
// @Success  200 {file} file
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /documents/{id}/content [get]
func DownloadDocument(catalog service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := catalog.OpenDocument(c.UserContext(), id)
		if err != nil {
			return writeDocError(c, err)
		}
		if doc.Payload == nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document content not found")
		}

		c.Attachment(doc.Name)
		if doc.MimeType != "" && doc.MimeType != model.UnknownMimeType {
			c.Set(fiber.HeaderContentType, doc.MimeType)
		} else {
			c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
		}
		return c.Send(doc.Payload)
	}
}

// DeleteDocument permanently removes a document. Unknown IDs succeed.
//
// @Summary  Delete a document
// @Tags     documents
// @Param    id  path string true "Document ID"
// @Success  204
// @Failure  400 {object} errorPayload
// @Router   /documents/{id} [delete]
func DeleteDocument(catalog service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := catalog.RemoveDocument(c.UserContext(), id); err != nil {
			return writeDocError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
