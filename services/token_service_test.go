package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/planify/planify/callback"
	"github.com/planify/planify/models"
	"github.com/planify/planify/repositories"
	"github.com/planify/planify/repositories/mocks"
)

// TokenServiceTestSuite is a test suite for the TokenService
type TokenServiceTestSuite struct {
	suite.Suite
	service  *TokenService
	mockRepo *mocks.MockTokenRepository
	now      time.Time
}

// SetupTest sets up the test suite before each test
func (suite *TokenServiceTestSuite) SetupTest() {
	suite.mockRepo = mocks.NewMockTokenRepository(suite.T())
	suite.service = NewTokenService(suite.mockRepo)
	suite.now = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.now }
}

// TestSave_MapsSessionToSlot tests that a session is written into the device slot
func (suite *TokenServiceTestSuite) TestSave_MapsSessionToSlot() {
	expiry := suite.now.Add(time.Hour)
	suite.mockRepo.EXPECT().Upsert(mock.Anything, mock.MatchedBy(func(t *models.DeviceToken) bool {
		return t.DeviceID == "device-1" &&
			t.Key == callback.TokenKey &&
			t.AccessToken == "at" &&
			t.Subject == "auth0|1" &&
			t.ExpiresAt != nil && t.ExpiresAt.Equal(expiry)
	})).Return(nil)

	err := suite.service.Save(context.Background(), "device-1", callback.TokenKey, &callback.Session{
		AccessToken: "at",
		Expiry:      expiry,
		User:        callback.Identity{Subject: "auth0|1"},
	})

	assert.NoError(suite.T(), err)
}

// TestSave_NoExpiry tests that a zero expiry is stored as NULL
func (suite *TokenServiceTestSuite) TestSave_NoExpiry() {
	suite.mockRepo.EXPECT().Upsert(mock.Anything, mock.MatchedBy(func(t *models.DeviceToken) bool {
		return t.ExpiresAt == nil
	})).Return(nil)

	err := suite.service.Save(context.Background(), "device-1", callback.TokenKey, &callback.Session{AccessToken: "at"})

	assert.NoError(suite.T(), err)
}

// TestLoad_EmptySlot tests that a missing row is reported as no session
func (suite *TokenServiceTestSuite) TestLoad_EmptySlot() {
	suite.mockRepo.EXPECT().Get(mock.Anything, "device-1", callback.TokenKey).Return(nil, repositories.ErrNotFound)

	sess, err := suite.service.Load(context.Background(), "device-1", callback.TokenKey)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), sess)
}

// TestLoad_NoDevice tests that an unknown device never hits the repository
func (suite *TokenServiceTestSuite) TestLoad_NoDevice() {
	sess, err := suite.service.Load(context.Background(), "", callback.TokenKey)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), sess)
}

// TestLoad_RepositoryError tests error propagation
func (suite *TokenServiceTestSuite) TestLoad_RepositoryError() {
	suite.mockRepo.EXPECT().Get(mock.Anything, "device-1", callback.TokenKey).Return(nil, errors.New("database is locked"))

	_, err := suite.service.Load(context.Background(), "device-1", callback.TokenKey)

	assert.ErrorContains(suite.T(), err, "database is locked")
}

// TestLoad_MapsSlotToSession tests the reverse mapping
func (suite *TokenServiceTestSuite) TestLoad_MapsSlotToSession() {
	expiry := suite.now.Add(time.Minute)
	suite.mockRepo.EXPECT().Get(mock.Anything, "device-1", callback.TokenKey).Return(&models.DeviceToken{
		AccessToken:  "at",
		RefreshToken: "rt",
		Subject:      "auth0|1",
		Email:        "una@planify.test",
		Name:         "Una",
		ExpiresAt:    &expiry,
	}, nil)

	sess, err := suite.service.Load(context.Background(), "device-1", callback.TokenKey)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "rt", sess.RefreshToken)
	assert.Equal(suite.T(), callback.Identity{Subject: "auth0|1", Email: "una@planify.test", Name: "Una"}, sess.User)
	assert.Equal(suite.T(), expiry, sess.Expiry)
}

// TestCurrent_Expired tests that an expired slot is not a live session
func (suite *TokenServiceTestSuite) TestCurrent_Expired() {
	past := suite.now.Add(-time.Second)
	suite.mockRepo.EXPECT().Get(mock.Anything, "device-1", callback.TokenKey).Return(&models.DeviceToken{ExpiresAt: &past}, nil)

	_, err := suite.service.Current(context.Background(), "device-1")

	assert.ErrorIs(suite.T(), err, ErrTokenNotFound)
}

// TestCurrent_Valid tests the happy path
func (suite *TokenServiceTestSuite) TestCurrent_Valid() {
	suite.mockRepo.EXPECT().Get(mock.Anything, "device-1", callback.TokenKey).Return(&models.DeviceToken{Subject: "auth0|1"}, nil)

	token, err := suite.service.Current(context.Background(), "device-1")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "auth0|1", token.Subject)
}

// TestSignOut tests slot deletion
func (suite *TokenServiceTestSuite) TestSignOut() {
	suite.mockRepo.EXPECT().Delete(mock.Anything, "device-1", callback.TokenKey).Return(nil)

	assert.NoError(suite.T(), suite.service.SignOut(context.Background(), "device-1"))
	assert.NoError(suite.T(), suite.service.SignOut(context.Background(), ""))
}

// TestPrune tests that the service clock is used
func (suite *TokenServiceTestSuite) TestPrune() {
	suite.mockRepo.EXPECT().DeleteExpired(mock.Anything, suite.now).Return(int64(3), nil)

	n, err := suite.service.Prune(context.Background())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), n)
}

// TestTokenServiceTestSuite runs the test suite
func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}

func TestAuditServiceRecordCallback(t *testing.T) {
	repo := mocks.NewMockAuditRepository(t)
	svc := NewAuditService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	repo.EXPECT().Create(mock.Anything, mock.MatchedBy(func(e *models.AuditLogEntry) bool {
		return e.Event == models.AuditEventCallback &&
			e.Outcome == "session_found" &&
			e.Subject == "auth0|1" &&
			strings.Contains(e.Detail, "strategy=code_exchange attempts=2")
	})).Return(nil).Once()

	repo.EXPECT().Create(mock.Anything, mock.MatchedBy(func(e *models.AuditLogEntry) bool {
		return e.Outcome == string(callback.CodeConfigError) && strings.Contains(e.Detail, "err=")
	})).Return(errors.New("readonly database")).Once()

	svc.RecordCallback(context.Background(), "device-1", callback.Resolution{
		Session:  &callback.Session{User: callback.Identity{Subject: "auth0|1"}},
		Strategy: "code_exchange",
		Attempts: make([]callback.Attempt, 2),
	})
	svc.RecordCallback(context.Background(), "device-1", callback.Resolution{
		Err:      callback.ErrConfiguration,
		Code:     callback.CodeConfigError,
		Attempts: make([]callback.Attempt, 1),
	})
}
