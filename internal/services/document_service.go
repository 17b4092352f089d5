package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/hirebridge/hirebridge/internal/models"
	pgrepo "github.com/hirebridge/hirebridge/internal/repositories/postgres"
	"github.com/hirebridge/hirebridge/internal/storage"
	"github.com/hirebridge/hirebridge/internal/utils"
)

const signedURLTTL = time.Hour

type DocumentService interface {
	Upload(ctx context.Context, ownerID string, docType models.DocumentType, fileName string, fileSize int64, mimeType, objectName string, r io.Reader) (*models.Document, error)
	ListMine(ctx context.Context, ownerID string) ([]models.Document, error)
	SignedURL(ctx context.Context, userID string, isAdmin bool, documentID string) (string, error)

	// Admin surface.
	ListAll(ctx context.Context) ([]models.DocumentWithOwner, error)
	SetVerification(ctx context.Context, documentID string, verified bool, notes string) (*models.Document, error)
}

type documentService struct {
	docs  pgrepo.DocumentRepo
	store storage.ObjectStore
}

func NewDocumentService(docs pgrepo.DocumentRepo, store storage.ObjectStore) DocumentService {
	return &documentService{docs: docs, store: store}
}

func (s *documentService) Upload(ctx context.Context, ownerID string, docType models.DocumentType, fileName string, fileSize int64, mimeType, objectName string, r io.Reader) (*models.Document, error) {
	const op = "DocumentService.Upload"

	if ownerID == "" || objectName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner_id and object_name are required", nil)
	}
	if s.store == nil {
		return nil, utils.E(utils.CodeInternal, op, "object store is not configured", nil)
	}

	storedPath, err := s.store.Upload(ctx, objectName, mimeType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	row := &models.Document{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Type:       docType,
		FileName:   fileName,
		ObjectPath: storedPath,
		FileSize:   fileSize,
		MimeType:   mimeType,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.docs.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist document metadata", err)
	}
	return row, nil
}

func (s *documentService) ListMine(ctx context.Context, ownerID string) ([]models.Document, error) {
	const op = "DocumentService.ListMine"

	if ownerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner_id is required", nil)
	}
	rows, err := s.docs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list documents", err)
	}
	return rows, nil
}

// SignedURL issues a short-lived GET URL; requested per view, never stored.
func (s *documentService) SignedURL(ctx context.Context, userID string, isAdmin bool, documentID string) (string, error) {
	const op = "DocumentService.SignedURL"

	if documentID == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "document_id is required", nil)
	}

	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", utils.E(utils.CodeNotFound, op, "document not found", err)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to load document", err)
	}
	if doc.OwnerID != userID && !isAdmin {
		return "", utils.E(utils.CodeForbidden, op, "document belongs to another user", nil)
	}

	url, err := s.store.SignedGetURL(ctx, doc.ObjectPath, signedURLTTL)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to sign URL", err)
	}
	return url, nil
}

func (s *documentService) ListAll(ctx context.Context) ([]models.DocumentWithOwner, error) {
	const op = "DocumentService.ListAll"

	rows, err := s.docs.ListAllWithOwner(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list documents", err)
	}
	return rows, nil
}

func (s *documentService) SetVerification(ctx context.Context, documentID string, verified bool, notes string) (*models.Document, error) {
	const op = "DocumentService.SetVerification"

	if documentID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "document_id is required", nil)
	}

	now := time.Now().UTC()
	if err := s.docs.SetVerification(ctx, documentID, verified, notes, now); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "document not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update verification", err)
	}

	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to reload document", err)
	}
	return doc, nil
}
