package email

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"fightclub/internal/logger"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init("error", false)

	code := m.Run()
	os.Exit(code)
}

type fakeSender struct {
	delivered []Job
	err       error
}

func (f *fakeSender) Deliver(ctx context.Context, job Job) error {
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, job)
	return nil
}

func newTestService(rdb *redis.Client, sender Sender) *Service {
	svc := New(rdb, sender)
	svc.retryDelay = 0
	return svc
}

func queued(t *testing.T, job Job) string {
	t.Helper()
	data, err := json.Marshal(job)
	require.NoError(t, err)
	return string(data)
}

func TestSend(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	svc := newTestService(db, &fakeSender{})
	err := svc.Send(context.Background(), "nora@example.com", "Nora", "Payment receipt", "Thanks")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendError(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.Regexp().ExpectLPush("emails", `.*`).SetErr(assert.AnError)

	svc := newTestService(db, &fakeSender{})
	err := svc.Send(context.Background(), "nora@example.com", "Nora", "Payment receipt", "Thanks")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_Delivers(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sender := &fakeSender{}
	job := Job{To: "nora@example.com", Name: "Nora", Subject: "Payment receipt", Body: "Thanks"}

	mock.ExpectBRPop(popTimeout, "emails").SetVal([]string{"emails", queued(t, job)})
	mock.ExpectLLen("emails").SetVal(0)

	newTestService(db, sender).processNext(context.Background())

	require.Len(t, sender.delivered, 1)
	assert.Equal(t, "nora@example.com", sender.delivered[0].To)
	assert.Equal(t, 1, sender.delivered[0].Tries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_RequeuesOnFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	job := Job{To: "nora@example.com", Subject: "Payment receipt"}

	mock.ExpectBRPop(popTimeout, "emails").SetVal([]string{"emails", queued(t, job)})
	mock.Regexp().ExpectLPush("emails", `"tries":1`).SetVal(1)

	newTestService(db, &fakeSender{err: errors.New("smtp down")}).processNext(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_GivesUpAfterMaxTries(t *testing.T) {
	db, mock := redismock.NewClientMock()
	job := Job{To: "nora@example.com", Subject: "Payment receipt", Tries: maxTries - 1}

	mock.ExpectBRPop(popTimeout, "emails").SetVal([]string{"emails", queued(t, job)})
	mock.Regexp().ExpectLPush("emails:failed", `smtp down`).SetVal(1)

	newTestService(db, &fakeSender{err: errors.New("smtp down")}).processNext(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_DropsMalformedJob(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sender := &fakeSender{}

	mock.ExpectBRPop(popTimeout, "emails").SetVal([]string{"emails", "not json"})

	newTestService(db, sender).processNext(context.Background())
	assert.Empty(t, sender.delivered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_BacksOffWhenRedisFails(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sender := &fakeSender{}
	svc := newTestService(db, sender)
	svc.retryDelay = 50 * time.Millisecond

	mock.ExpectBRPop(popTimeout, "emails").SetErr(errors.New("dial tcp 127.0.0.1:6379: connection refused"))

	start := time.Now()
	svc.processNext(context.Background())

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Empty(t, sender.delivered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_EmptyQueueDoesNotWait(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := newTestService(db, &fakeSender{})
	svc.retryDelay = time.Minute

	mock.ExpectBRPop(popTimeout, "emails").RedisNil()

	done := make(chan struct{})
	go func() {
		svc.processNext(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("empty queue triggered the failure backoff")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_BackoffStopsOnCancel(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := newTestService(db, &fakeSender{})
	svc.retryDelay = time.Minute

	mock.ExpectBRPop(popTimeout, "emails").SetErr(errors.New("connection refused"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.processNext(ctx)
		close(done)
	}()
	time.AfterFunc(20*time.Millisecond, cancel)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("backoff ignored cancellation")
	}
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.ExpectLLen("emails").SetVal(5)

	assert.Equal(t, int64(5), newTestService(db, &fakeSender{}).QueueLength(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStart_StopsOnCancel(t *testing.T) {
	db, _ := redismock.NewClientMock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		newTestService(db, &fakeSender{}).Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("club@example.com", "Fight Club", Job{
		To:      "nora@example.com",
		Subject: "Payment receipt",
		Body:    "Thanks",
	}))

	assert.True(t, strings.HasPrefix(msg, "From: Fight Club <club@example.com>\r\n"))
	assert.Contains(t, msg, "To: nora@example.com\r\n")
	assert.Contains(t, msg, "Subject: Payment receipt\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nThanks"))
}
