package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	phone string
	body  string
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, phone, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{phone: phone, body: body})
	return nil
}

type fakeRecorder struct {
	results map[string][]error
}

func (f *fakeRecorder) ObserveJob(task string, err error) {
	if f.results == nil {
		f.results = map[string][]error{}
	}
	f.results[task] = append(f.results[task], err)
}

type fakeCleaner struct {
	retention time.Duration
}

func (f *fakeCleaner) Cleanup(_ context.Context, olderThan time.Duration) error {
	f.retention = olderThan
	return nil
}

func TestHandleOTPSendDeliversMessage(t *testing.T) {
	sender := &fakeSender{}
	recorder := &fakeRecorder{}
	p := NewProcessors(ProcessorsConfig{Sender: sender, Recorder: recorder, OTPTTL: 5 * time.Minute})

	task, err := NewOTPTask(OTPPayload{Phone: "9876543210", Code: "482913"})
	require.NoError(t, err)
	require.Equal(t, TaskOTPSend, task.Type())

	require.NoError(t, p.HandleOTPSend(context.Background(), task))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "9876543210", sender.sent[0].phone)
	assert.Contains(t, sender.sent[0].body, "482913 is your OTP for OrderSathi")
	assert.Contains(t, sender.sent[0].body, "next 5 minutes")
	assert.Equal(t, []error{nil}, recorder.results[TaskOTPSend])
}

func TestHandleOTPSendMalformedPayloadSkipsRetry(t *testing.T) {
	sender := &fakeSender{}
	p := NewProcessors(ProcessorsConfig{Sender: sender})

	err := p.HandleOTPSend(context.Background(), asynq.NewTask(TaskOTPSend, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	body, _ := json.Marshal(OTPPayload{Phone: "9876543210"})
	err = p.HandleOTPSend(context.Background(), asynq.NewTask(TaskOTPSend, body))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, sender.sent)
}

func TestHandleOTPSendGatewayFailureIsRetried(t *testing.T) {
	sender := &fakeSender{err: errors.New("gateway down")}
	recorder := &fakeRecorder{}
	p := NewProcessors(ProcessorsConfig{Sender: sender, Recorder: recorder})

	task, err := NewOTPTask(OTPPayload{Phone: "9876543210", Code: "111111"})
	require.NoError(t, err)

	err = p.HandleOTPSend(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
	require.Len(t, recorder.results[TaskOTPSend], 1)
	assert.Error(t, recorder.results[TaskOTPSend][0])
}

func TestHandleIdempotencyCleanup(t *testing.T) {
	cleaner := &fakeCleaner{}
	p := NewProcessors(ProcessorsConfig{Cleaner: cleaner})

	task, err := NewIdempotencyCleanupTask(24 * time.Hour)
	require.NoError(t, err)
	require.NoError(t, p.HandleIdempotencyCleanup(context.Background(), task))
	assert.Equal(t, 24*time.Hour, cleaner.retention)

	task, err = NewIdempotencyCleanupTask(0)
	require.NoError(t, err)
	require.NoError(t, p.HandleIdempotencyCleanup(context.Background(), task))
	assert.Equal(t, defaultKeyRetention, cleaner.retention)
}

func TestProcessorsHandlers(t *testing.T) {
	assert.Len(t, NewProcessors(ProcessorsConfig{}).Handlers(), 1)
	assert.Len(t, NewProcessors(ProcessorsConfig{Cleaner: &fakeCleaner{}}).Handlers(), 2)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "******3210", maskPhone("9876543210"))
	assert.Equal(t, "****", maskPhone("12"))
}
