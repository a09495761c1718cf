package notifications

import (
	"errors"
	"sync"
	"testing"

	"github.com/anjiri1684/estate_market/models"
)

type recordingStore struct {
	mu      sync.Mutex
	calls   []string
	saveErr error
	token   *models.UserPushToken
	user    *models.User
}

func (s *recordingStore) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *recordingStore) callLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *recordingStore) SaveNotification(userID uint, title, body, payload string) error {
	s.record("save")
	return s.saveErr
}

func (s *recordingStore) PushToken(userID uint) (*models.UserPushToken, error) {
	s.record("token")
	return s.token, nil
}

func (s *recordingStore) User(userID uint) (*models.User, error) {
	s.record("user")
	return s.user, nil
}

type channelRecorder struct {
	mu     sync.Mutex
	expo   int
	web    int
	email  int
	result ChannelResult
}

func strPtr(s string) *string { return &s }

func newTestDispatcher(store *recordingStore, expoResult, webResult, emailResult ChannelResult) (*Dispatcher, *channelRecorder) {
	rec := &channelRecorder{}
	d := newDispatcher(store,
		func(token, title, body string, data map[string]interface{}) ChannelResult {
			rec.mu.Lock()
			rec.expo++
			rec.mu.Unlock()
			return expoResult
		},
		func(subscription, title, body string, data map[string]interface{}) ChannelResult {
			rec.mu.Lock()
			rec.web++
			rec.mu.Unlock()
			return webResult
		},
		func(name, email, subject, body string) ChannelResult {
			rec.mu.Lock()
			rec.email++
			rec.mu.Unlock()
			return emailResult
		},
		4)
	return d, rec
}

func TestProcessPersistsRecordBeforeChannels(t *testing.T) {
	store := &recordingStore{
		token: &models.UserPushToken{UserID: 7, ExpoToken: strPtr("ExponentPushToken[x]")},
	}
	d, rec := newTestDispatcher(store, ChannelResult{Attempted: true, Delivered: true}, ChannelResult{}, ChannelResult{})
	defer d.Stop()

	d.process(dispatchJob{UserID: 7, Title: "New message", Body: "hi"})

	calls := store.callLog()
	if len(calls) == 0 || calls[0] != "save" {
		t.Fatalf("notification record must be persisted first, call order: %v", calls)
	}
	if rec.expo != 1 {
		t.Fatalf("expected one expo attempt, got %d", rec.expo)
	}
	if rec.email != 0 {
		t.Fatal("email must not run when push delivered")
	}
}

func TestProcessPersistFailureSkipsChannels(t *testing.T) {
	store := &recordingStore{
		saveErr: errors.New("db down"),
		token:   &models.UserPushToken{UserID: 7, ExpoToken: strPtr("ExponentPushToken[x]")},
	}
	d, rec := newTestDispatcher(store, ChannelResult{Attempted: true, Delivered: true}, ChannelResult{}, ChannelResult{})
	defer d.Stop()

	d.process(dispatchJob{UserID: 7})

	if rec.expo != 0 || rec.web != 0 || rec.email != 0 {
		t.Fatal("no channel should run when the record cannot be persisted")
	}
}

func TestProcessEmailIsLastResort(t *testing.T) {
	sub := `{"endpoint":"https://push.example","keys":{"p256dh":"x","auth":"y"}}`
	store := &recordingStore{
		token: &models.UserPushToken{
			UserID:              7,
			ExpoToken:           strPtr("ExponentPushToken[x]"),
			WebPushSubscription: strPtr(sub),
		},
		user: &models.User{ID: 7, FullName: "Ada", Email: "ada@example.com"},
	}
	failed := ChannelResult{Attempted: true, Delivered: false, Detail: "provider error"}
	d, rec := newTestDispatcher(store, failed, failed, ChannelResult{Attempted: true, Delivered: true})
	defer d.Stop()

	results := d.process(dispatchJob{UserID: 7, Title: "New message", Body: "hi"})

	if rec.expo != 1 || rec.web != 1 {
		t.Fatalf("both push channels should be attempted, expo=%d web=%d", rec.expo, rec.web)
	}
	if rec.email != 1 {
		t.Fatalf("email fallback should run when no push delivered, got %d", rec.email)
	}
	if !results.Email.Delivered {
		t.Fatal("email result should be captured")
	}
}

func TestProcessWebPushDeliverySuppressesEmail(t *testing.T) {
	sub := `{"endpoint":"https://push.example","keys":{"p256dh":"x","auth":"y"}}`
	store := &recordingStore{
		token: &models.UserPushToken{UserID: 7, WebPushSubscription: strPtr(sub)},
		user:  &models.User{ID: 7, Email: "ada@example.com"},
	}
	d, rec := newTestDispatcher(store, ChannelResult{}, ChannelResult{Attempted: true, Delivered: true}, ChannelResult{})
	defer d.Stop()

	d.process(dispatchJob{UserID: 7})

	if rec.expo != 0 {
		t.Fatal("expo must not run without a token")
	}
	if rec.email != 0 {
		t.Fatal("email must not run when web push delivered")
	}
}

func TestProcessNoChannelsFallsBackToEmail(t *testing.T) {
	store := &recordingStore{
		user: &models.User{ID: 7, FullName: "Ada", Email: "ada@example.com"},
	}
	d, rec := newTestDispatcher(store, ChannelResult{}, ChannelResult{}, ChannelResult{Attempted: true, Delivered: true})
	defer d.Stop()

	d.process(dispatchJob{UserID: 7})

	if rec.email != 1 {
		t.Fatalf("email should run when the user has no push registration, got %d", rec.email)
	}
}

func TestEnqueueIsProcessedByWorker(t *testing.T) {
	store := &recordingStore{}
	d, _ := newTestDispatcher(store, ChannelResult{}, ChannelResult{}, ChannelResult{})

	d.Enqueue(7, "New message", "hi", map[string]interface{}{"conversation_id": 1})
	d.Stop()

	calls := store.callLog()
	if len(calls) == 0 || calls[0] != "save" {
		t.Fatalf("queued job should be processed before Stop returns, calls: %v", calls)
	}
}

func TestEnqueueNeverBlocksWhenQueueFull(t *testing.T) {
	entered := make(chan struct{}, 8)
	release := make(chan struct{})
	store := &blockingStore{entered: entered, release: release}

	d := newDispatcher(store,
		func(string, string, string, map[string]interface{}) ChannelResult { return ChannelResult{} },
		func(string, string, string, map[string]interface{}) ChannelResult { return ChannelResult{} },
		func(string, string, string, string) ChannelResult { return ChannelResult{} },
		1)

	d.Enqueue(1, "t", "b", nil)
	<-entered // worker is now stuck inside the first job

	d.Enqueue(2, "t", "b", nil) // fills the buffer
	d.Enqueue(3, "t", "b", nil) // must drop, not block

	close(release)
	d.Stop()

	if got := store.saves(); got != 2 {
		t.Fatalf("expected 2 processed jobs (third dropped), got %d", got)
	}
}

type blockingStore struct {
	mu      sync.Mutex
	count   int
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) SaveNotification(userID uint, title, body, payload string) error {
	s.entered <- struct{}{}
	<-s.release
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	return nil
}

func (s *blockingStore) PushToken(userID uint) (*models.UserPushToken, error) { return nil, nil }

func (s *blockingStore) User(userID uint) (*models.User, error) { return nil, nil }

func (s *blockingStore) saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
