package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"reunion/internal/audit"
	"reunion/internal/gallery/store"
	"reunion/internal/platform/objectstore"
	dErrors "reunion/pkg/domain-errors"
	authmw "reunion/pkg/platform/middleware/auth"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type GalleryServiceTestSuite struct {
	suite.Suite
	svc       *Service
	storage   *objectstore.InMemoryStore
	publisher *audit.InMemoryPublisher
	ctx       context.Context
	principal authmw.Principal
}

func TestGalleryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GalleryServiceTestSuite))
}

func (s *GalleryServiceTestSuite) SetupTest() {
	s.storage = objectstore.NewInMemoryStore("https://cdn.example.com")
	s.publisher = audit.NewInMemoryPublisher()
	s.ctx = context.Background()
	s.principal = authmw.Principal{UserID: "user-1", Email: "ana@example.com"}

	svc, err := New(store.NewInMemoryStore(), s.storage, WithAuditPublisher(s.publisher))
	s.Require().NoError(err)
	s.svc = svc
}

func (s *GalleryServiceTestSuite) TestUploadStoresAndLists() {
	resp, err := s.svc.Upload(s.ctx, s.principal, "beach.png", "day one", pngHeader)
	s.Require().NoError(err)
	s.NotEmpty(resp.ID)
	s.Contains(resp.URL, "https://cdn.example.com/gallery/")
	s.Equal(1, s.storage.Len())

	items, err := s.svc.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("day one", items[0].Caption)
	s.Equal("ana@example.com", items[0].UploaderName)
	s.Len(s.publisher.ByAction(audit.ActionFileUploaded), 1)
}

func (s *GalleryServiceTestSuite) TestUploadRejectsEmptyFile() {
	_, err := s.svc.Upload(s.ctx, s.principal, "beach.png", "", nil)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))
}

func (s *GalleryServiceTestSuite) TestUploadRejectsNonImage() {
	_, err := s.svc.Upload(s.ctx, s.principal, "notes.txt", "", []byte("plain text contents"))
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	s.Equal(0, s.storage.Len())
}

func (s *GalleryServiceTestSuite) TestUploadRejectsOversizedFile() {
	big := make([]byte, MaxUploadBytes+1)
	copy(big, pngHeader)
	_, err := s.svc.Upload(s.ctx, s.principal, "huge.png", "", big)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))
}

func (s *GalleryServiceTestSuite) TestListReturnsEmptySliceNotNil() {
	items, err := s.svc.List(s.ctx)
	s.Require().NoError(err)
	s.NotNil(items)
	s.Empty(items)
}
