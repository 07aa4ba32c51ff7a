package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestExpirerService_RunUsesRetentionCutoff(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	est := new(MockEstimateStore)
	est.On("DeleteOlderThan", mock.Anything, now.Add(-48*time.Hour)).Return(int64(3), nil)

	s := NewExpirerService(est, 48*time.Hour, zap.NewNop())
	s.run(context.Background(), now)

	est.AssertExpectations(t)
}

func TestExpirerService_RunSurvivesStoreErrors(t *testing.T) {
	est := new(MockEstimateStore)
	est.On("DeleteOlderThan", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset"))

	s := NewExpirerService(est, time.Hour, zap.NewNop())
	assert.NotPanics(t, func() { s.run(context.Background(), time.Now()) })
}

func TestExpirerService_StartStop(t *testing.T) {
	called := make(chan struct{}, 1)
	est := new(MockEstimateStore)
	est.On("DeleteOlderThan", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case called <- struct{}{}:
			default:
			}
		}).
		Return(int64(0), nil)

	s := NewExpirerService(est, time.Hour, zap.NewNop())
	s.SetInterval(10 * time.Millisecond)
	s.Start()

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("expirer never ran")
	}
	s.Stop()
}
