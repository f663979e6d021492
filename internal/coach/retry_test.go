package coach

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

func TestRetry_RecoversFromTransientFailure(t *testing.T) {
	mock := NewMockClient().
		Fail(&ErrProviderUnavailable{Err: errors.New("503")}).
		Fail(&ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}).
		Respond("ok")

	resp, err := WithRetry(mock, fastRetry(3)).Generate(context.Background(), "", UserMessage("hi"), chatTuning)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Len(t, mock.Calls(), 3)
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockClient()
	for range 4 {
		mock.Fail(&ErrProviderUnavailable{})
	}

	_, err := WithRetry(mock, fastRetry(2)).Generate(context.Background(), "", UserMessage("hi"), chatTuning)
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Len(t, mock.Calls(), 2)
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	mock := NewMockClient().Respond("").Respond("").Respond("never reached")

	_, err := WithRetry(mock, fastRetry(5)).Generate(context.Background(), "", UserMessage("hi"), chatTuning)
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
	assert.Len(t, mock.Calls(), 2)
}

func TestRetry_ContextErrorsNotRetried(t *testing.T) {
	mock := NewMockClient().Fail(context.DeadlineExceeded).Respond("late")

	_, err := WithRetry(mock, fastRetry(3)).Generate(context.Background(), "", UserMessage("hi"), chatTuning)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, mock.Calls(), 1)
}

func TestRetry_BackoffHonoursRetryAfter(t *testing.T) {
	r := &RetryClient{config: RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: 4 * time.Second, Multiplier: 2}}

	assert.Equal(t, 7*time.Second, r.backoff(0, &ErrRateLimit{RetryAfter: 7 * time.Second}))

	wait := r.backoff(5, errors.New("boom"))
	assert.LessOrEqual(t, wait, time.Duration(float64(4*time.Second)*1.2))
	assert.GreaterOrEqual(t, wait, time.Duration(float64(4*time.Second)*0.8))
}
