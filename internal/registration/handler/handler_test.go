package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"reunion/internal/credential"
	"reunion/internal/notify"
	"reunion/internal/platform/objectstore"
	"reunion/internal/registration/models"
	"reunion/internal/registration/service"
	"reunion/internal/registration/store"
	authmw "reunion/pkg/platform/middleware/auth"
)

type RegistrationHandlerTestSuite struct {
	suite.Suite
	handler   *Handler
	mailer    *notify.InMemoryMailer
	principal authmw.Principal
}

func TestRegistrationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RegistrationHandlerTestSuite))
}

func (s *RegistrationHandlerTestSuite) SetupTest() {
	storage := objectstore.NewInMemoryStore("https://cdn.example.com")
	s.mailer = notify.NewInMemoryMailer()
	s.principal = authmw.Principal{UserID: "user-1", Email: "ana@example.com"}

	svc, err := service.New(
		store.NewInMemoryStore(),
		credential.NewGenerator(storage, "reunion-2026"),
		s.mailer,
		"reunion-2026",
	)
	s.Require().NoError(err)
	s.handler = New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *RegistrationHandlerTestSuite) register(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req = req.WithContext(authmw.WithPrincipal(req.Context(), s.principal))
	rr := httptest.NewRecorder()
	s.handler.HandleRegister(rr, req)
	return rr
}

func (s *RegistrationHandlerTestSuite) get() *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/get-registration", nil)
	req = req.WithContext(authmw.WithPrincipal(req.Context(), s.principal))
	rr := httptest.NewRecorder()
	s.handler.HandleGetRegistration(rr, req)
	return rr
}

func (s *RegistrationHandlerTestSuite) TestRegisterSucceeds() {
	rr := s.register(`{
		"name": "Ana", "email": "ana@example.com", "phone": "555-0100",
		"location": "Porto", "adults": 2, "kids": 1, "fridayDinner": true
	}`)
	s.Equal(http.StatusOK, rr.Code)

	var resp models.RegisterResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Equal("Registration confirmed", resp.Message)
	s.True(resp.EmailSent)
	s.Len(s.mailer.Messages(), 1)
}

func (s *RegistrationHandlerTestSuite) TestRegisterRejectsMalformedBody() {
	rr := s.register(`{not json`)
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *RegistrationHandlerTestSuite) TestRegisterRejectsMissingFields() {
	rr := s.register(`{"name": "Ana"}`)
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *RegistrationHandlerTestSuite) TestRegisterRequiresPrincipal() {
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(nil))
	rr := httptest.NewRecorder()
	s.handler.HandleRegister(rr, req)
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *RegistrationHandlerTestSuite) TestGetReturnsEmptyObjectWhenUnregistered() {
	rr := s.get()
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{}`, rr.Body.String())
}

func (s *RegistrationHandlerTestSuite) TestGetReturnsStoredRegistration() {
	s.register(`{"name": "Ana", "email": "ana@example.com", "phone": "555-0100", "adults": 2}`)

	rr := s.get()
	s.Equal(http.StatusOK, rr.Code)

	var rec models.RegistrationRecord
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &rec))
	s.Equal("Ana", rec.Name)
	s.Equal(2, rec.Adults)
	s.Contains(rec.QRCodeURL, "https://cdn.example.com/qrcodes/555-0100-")
}
