package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/services"
	"github.com/hirebridge/hirebridge/internal/utils"
)

type DocumentHandler struct {
	svc services.DocumentService
}

func NewDocumentHandler(svc services.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

var allowedDocTypes = map[string]models.DocumentType{
	"resume":      models.DocumentResume,
	"identity":    models.DocumentIdentity,
	"certificate": models.DocumentCertificate,
}

// content types accepted per sniffed header
var allowedMimes = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	const op = "DocumentHandler.Upload"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	docType, ok := allowedDocTypes[c.PostForm("type")]
	if !ok {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "type must be resume, identity, or certificate", nil))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", err))
		return
	}
	if fh.Size <= 0 || fh.Size > 10<<20 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	ct := http.DetectContentType(head)
	ext, ok := allowedMimes[ct]
	if !ok {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "only pdf, png, and jpeg are allowed", nil))
		return
	}

	// re-compose stream: head + remaining file
	r := &readJoin{a: bytes.NewReader(head), b: file}

	objectName := "documents/" + userID + "/" + uuid.NewString() + ext

	fileName := filepath.Base(fh.Filename)
	if strings.TrimSpace(fileName) == "" || fileName == "." {
		fileName = "document" + ext
	}

	row, err := h.svc.Upload(c.Request.Context(), userID, docType, fileName, fh.Size, ct, objectName, r)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, row)
}

type readJoin struct {
	a *bytes.Reader
	b io.Reader
}

func (r *readJoin) Read(p []byte) (int, error) {
	if r.a != nil && r.a.Len() > 0 {
		return r.a.Read(p)
	}
	return r.b.Read(p)
}

func (h *DocumentHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": rows})
}

func (h *DocumentHandler) SignedURL(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	url, err := h.svc.SignedURL(c.Request.Context(), userID, isAdmin(c), c.Param("document_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *DocumentHandler) ListAll(c *gin.Context) {
	rows, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": rows})
}

type verifyDocumentRequest struct {
	Verified bool   `json:"verified"`
	Notes    string `json:"notes"`
}

func (h *DocumentHandler) SetVerification(c *gin.Context) {
	const op = "DocumentHandler.SetVerification"

	var req verifyDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid json body", err))
		return
	}

	doc, err := h.svc.SetVerification(c.Request.Context(), c.Param("document_id"), req.Verified, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
