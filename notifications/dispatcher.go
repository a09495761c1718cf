package notifications

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/anjiri1684/estate_market/database"
	"github.com/anjiri1684/estate_market/models"
	"gorm.io/gorm"
)

// DispatchStore is the persistence the dispatcher needs: the notification
// record itself plus the recipient's channels.
type DispatchStore interface {
	SaveNotification(userID uint, title, body, payload string) error
	PushToken(userID uint) (*models.UserPushToken, error)
	User(userID uint) (*models.User, error)
}

type dispatchJob struct {
	UserID  uint
	Title   string
	Body    string
	Payload map[string]interface{}
}

// DispatchResults are the per-channel outcomes of one fallback dispatch.
type DispatchResults struct {
	Expo  ChannelResult
	Web   ChannelResult
	Email ChannelResult
}

// Dispatcher persists a notification record and attempts push then email
// fallback for users with no live connection. Work goes through a bounded
// queue handled by one worker so slow providers never block a chat loop.
// Enqueue never blocks and callers never observe results or errors.
type Dispatcher struct {
	queue chan dispatchJob
	done  chan struct{}

	store     DispatchStore
	sendExpo  func(token, title, body string, data map[string]interface{}) ChannelResult
	sendWeb   func(subscription, title, body string, data map[string]interface{}) ChannelResult
	sendEmail func(name, email, subject, body string) ChannelResult
}

func NewDispatcher(buffer int) *Dispatcher {
	return newDispatcher(&gormDispatchStore{}, SendExpoPush, SendWebPush, emailChannel, buffer)
}

func newDispatcher(
	store DispatchStore,
	sendExpo func(token, title, body string, data map[string]interface{}) ChannelResult,
	sendWeb func(subscription, title, body string, data map[string]interface{}) ChannelResult,
	sendEmail func(name, email, subject, body string) ChannelResult,
	buffer int,
) *Dispatcher {
	if buffer < 1 {
		buffer = 1
	}
	d := &Dispatcher{
		queue:     make(chan dispatchJob, buffer),
		done:      make(chan struct{}),
		store:     store,
		sendExpo:  sendExpo,
		sendWeb:   sendWeb,
		sendEmail: sendEmail,
	}
	go d.run()
	return d
}

// Enqueue hands a notification to the worker. When the queue is full the
// notification is dropped with a log line rather than blocking the caller.
func (d *Dispatcher) Enqueue(userID uint, title, body string, payload map[string]interface{}) {
	job := dispatchJob{UserID: userID, Title: title, Body: body, Payload: payload}
	select {
	case d.queue <- job:
	default:
		log.Printf("Notification queue full, dropping notification for user %d", userID)
	}
}

// Stop drains the queue and waits for the worker to exit. Enqueue must not be
// called after Stop.
func (d *Dispatcher) Stop() {
	close(d.queue)
	<-d.done
}

func (d *Dispatcher) run() {
	for job := range d.queue {
		d.process(job)
	}
	close(d.done)
}

// process always persists the notification record first; channel attempts are
// independent of each other and email runs only when neither push channel
// produced a deliverable result. Nothing here can fail the caller.
func (d *Dispatcher) process(job dispatchJob) DispatchResults {
	var results DispatchResults

	payload, err := json.Marshal(job.Payload)
	if err != nil {
		log.Printf("Failed to encode notification payload for user %d: %v", job.UserID, err)
		payload = []byte("{}")
	}

	if err := d.store.SaveNotification(job.UserID, job.Title, job.Body, string(payload)); err != nil {
		log.Printf("Failed to persist notification for user %d: %v", job.UserID, err)
		return results
	}

	token, err := d.store.PushToken(job.UserID)
	if err != nil {
		log.Printf("Failed to load push token for user %d: %v", job.UserID, err)
	}
	if token != nil {
		if token.ExpoToken != nil && *token.ExpoToken != "" {
			results.Expo = d.sendExpo(*token.ExpoToken, job.Title, job.Body, job.Payload)
		}
		if token.WebPushSubscription != nil && *token.WebPushSubscription != "" {
			results.Web = d.sendWeb(*token.WebPushSubscription, job.Title, job.Body, job.Payload)
		}
	}

	if !results.Expo.Delivered && !results.Web.Delivered {
		user, err := d.store.User(job.UserID)
		if err != nil {
			log.Printf("Failed to load user %d for email fallback: %v", job.UserID, err)
		} else if user != nil && user.Email != "" {
			results.Email = d.sendEmail(user.FullName, user.Email, job.Title, job.Body)
		}
	}

	log.Printf("Notification dispatched to user %d (expo delivered=%t, web delivered=%t, email delivered=%t)",
		job.UserID, results.Expo.Delivered, results.Web.Delivered, results.Email.Delivered)
	return results
}

func emailChannel(name, email, subject, body string) ChannelResult {
	if err := SendEmail(name, email, subject, body); err != nil {
		return ChannelResult{Attempted: true, Detail: err.Error()}
	}
	return ChannelResult{Attempted: true, Delivered: true}
}

type gormDispatchStore struct{}

func (gormDispatchStore) SaveNotification(userID uint, title, body, payload string) error {
	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Body:    body,
		Payload: payload,
	}
	return database.DB.Create(&notification).Error
}

func (gormDispatchStore) PushToken(userID uint) (*models.UserPushToken, error) {
	var token models.UserPushToken
	err := database.DB.First(&token, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (gormDispatchStore) User(userID uint) (*models.User, error) {
	var user models.User
	err := database.DB.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
