package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mastermind-go/internal/model"
	"github.com/mcoot/mastermind-go/internal/storage/memory"
	"github.com/mcoot/mastermind-go/internal/storage/storagetest"
	"github.com/mcoot/mastermind-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *storagetest.Faulty
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = storagetest.NewFaulty(memory.New())
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestDefaultsDisallowRepeats() {
	s.False(s.service.AllowRepeats(s.ctx))
	s.Equal(model.DefaultSettings(), s.service.Get(s.ctx))
}

func (s *ServiceSuite) TestSetAllowRepeats() {
	settings, err := s.service.SetAllowRepeats(s.ctx, true)
	s.Require().NoError(err)
	s.True(settings.AllowRepeats)
	s.True(s.service.AllowRepeats(s.ctx))

	settings, err = s.service.SetAllowRepeats(s.ctx, false)
	s.Require().NoError(err)
	s.False(settings.AllowRepeats)
	s.False(s.service.AllowRepeats(s.ctx))
}

func (s *ServiceSuite) TestReadFailureFallsBackToDefaults() {
	_, _ = s.service.SetAllowRepeats(s.ctx, true)
	s.storage.FailReads = true

	s.False(s.service.AllowRepeats(s.ctx))
}

func (s *ServiceSuite) TestWriteFailure() {
	s.storage.FailWrites = true

	_, err := s.service.SetAllowRepeats(s.ctx, true)
	s.ErrorIs(err, model.ErrPersistenceFailure)

	s.storage.FailWrites = false
	s.False(s.service.AllowRepeats(s.ctx))
}
