//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"reunion/internal/registration/models"
	"reunion/internal/registration/store"
	"reunion/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *store.PostgresStore
	principal string
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "registrations", "users"))

	s.principal = uuid.NewString()
	_, err := s.postgres.DB.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, 'x')`,
		s.principal, "ana@example.com")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) record() *models.RegistrationRecord {
	return &models.RegistrationRecord{
		PrincipalID:  s.principal,
		Name:         "Ana",
		Email:        "ana@example.com",
		Phone:        "555-0100",
		Location:     "Porto",
		Adults:       2,
		Kids:         1,
		FridayDinner: true,
		QRCodeURL:    "https://cdn.example.com/qrcodes/555-0100-1.png",
	}
}

func (s *PostgresStoreSuite) TestFindByPrincipalReturnsNilWhenAbsent() {
	rec, err := s.store.FindByPrincipal(context.Background(), uuid.NewString())
	s.Require().NoError(err)
	s.Nil(rec)
}

func (s *PostgresStoreSuite) TestUpsertRoundTrip() {
	ctx := context.Background()

	stored, err := s.store.Upsert(ctx, s.record())
	s.Require().NoError(err)
	s.False(stored.CreatedAt.IsZero())

	found, err := s.store.FindByPrincipal(ctx, s.principal)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal("Ana", found.Name)
	s.Equal(2, found.Adults)
	s.True(found.FridayDinner)
	s.Equal("https://cdn.example.com/qrcodes/555-0100-1.png", found.QRCodeURL)
}

func (s *PostgresStoreSuite) TestUpsertReplacesAndKeepsCreatedAt() {
	ctx := context.Background()

	first, err := s.store.Upsert(ctx, s.record())
	s.Require().NoError(err)

	rec := s.record()
	rec.Adults = 4
	rec.QRCodeURL = ""
	second, err := s.store.Upsert(ctx, rec)
	s.Require().NoError(err)

	s.Equal(first.CreatedAt.UTC(), second.CreatedAt.UTC())
	s.Equal(4, second.Adults)
	s.Empty(second.QRCodeURL)

	var count int
	s.Require().NoError(s.postgres.DB.QueryRow(`SELECT COUNT(*) FROM registrations`).Scan(&count))
	s.Equal(1, count)
}

func (s *PostgresStoreSuite) TestConcurrentUpsertsKeepOneRow() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(adults int) {
			defer wg.Done()
			rec := s.record()
			rec.Adults = adults
			_, err := s.store.Upsert(ctx, rec)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}

	var count int
	s.Require().NoError(s.postgres.DB.QueryRow(`SELECT COUNT(*) FROM registrations`).Scan(&count))
	s.Equal(1, count)
}
