package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/lims-backend/internal/http/response"
	"github.com/yungbote/lims-backend/internal/ingest/upload"
	"github.com/yungbote/lims-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/lims-backend/internal/pkg/errors"
	"github.com/yungbote/lims-backend/internal/platform/ctxutil"
	"github.com/yungbote/lims-backend/internal/platform/logger"
	"github.com/yungbote/lims-backend/internal/services"
)

// Multipart parts above this size spill to disk while the form is parsed.
const multipartMemory = 32 << 20

type ImportHandler struct {
	log          *logger.Logger
	imports      services.ImportService
	maxJSONBytes int64
}

func NewImportHandler(log *logger.Logger, imports services.ImportService, maxJSONBytes int64) *ImportHandler {
	if maxJSONBytes <= 0 {
		maxJSONBytes = upload.DefaultMaxBytes
	}
	return &ImportHandler{
		log:          log.With("handler", "ImportHandler"),
		imports:      imports,
		maxJSONBytes: maxJSONBytes,
	}
}

// POST /api/import/:kind/excel
func (h *ImportHandler) ImportExcel(c *gin.Context) {
	if !h.authorized(c) {
		return
	}
	kind, err := services.KindFromPath(c.Param("kind"))
	if err != nil {
		response.RespondImportError(c, err)
		return
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}
	fh := firstFilePart(c.Request.MultipartForm)
	if fh == nil {
		response.RespondImportError(c, pkgerrors.ErrNoFile)
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.log.Error("cannot open uploaded file", "file", fh.Filename, "error", err)
		response.RespondError(c, http.StatusBadRequest, "could_not_read_file", err)
		return
	}
	defer func() { _ = f.Close() }()

	res, err := h.imports.ImportFile(dbctx.Context{Ctx: c.Request.Context()}, kind, fh.Filename, f)
	if err != nil {
		_ = c.Error(err)
		response.RespondImportError(c, err)
		return
	}
	response.RespondSuccess(c, res.Message, res)
}

// POST /api/import/:kind
func (h *ImportHandler) ImportJSON(c *gin.Context) {
	if !h.authorized(c) {
		return
	}
	kind, err := services.KindFromPath(c.Param("kind"))
	if err != nil {
		response.RespondImportError(c, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxJSONBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "could_not_read_body", err)
		return
	}
	if int64(len(body)) > h.maxJSONBytes {
		response.RespondImportError(c, fmt.Errorf("%w: limit is %d bytes", pkgerrors.ErrPayloadTooLarge, h.maxJSONBytes))
		return
	}

	res, err := h.imports.ImportJSON(dbctx.Context{Ctx: c.Request.Context()}, kind, body)
	if err != nil {
		_ = c.Error(err)
		response.RespondImportError(c, err)
		return
	}
	response.RespondSuccess(c, res.Message, res)
}

func (h *ImportHandler) authorized(c *gin.Context) bool {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondImportError(c, pkgerrors.ErrUnauthorized)
		return false
	}
	return true
}

// firstFilePart prefers the "file" field and otherwise takes the first file
// part in field-name order.
func firstFilePart(form *multipart.Form) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	if fhs := form.File["file"]; len(fhs) > 0 {
		return fhs[0]
	}
	fields := make([]string, 0, len(form.File))
	for name := range form.File {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	for _, name := range fields {
		if fhs := form.File[name]; len(fhs) > 0 {
			return fhs[0]
		}
	}
	return nil
}
