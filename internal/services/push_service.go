package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	messagingClient *messaging.Client
	messagingOnce   sync.Once
	messagingErr    error

	ErrNoFirebaseKey = errors.New("FIREBASE_SERVICE_ACCOUNT_KEY environment variable not set")
)

// getMessagingClient initializes the Firebase Admin SDK on first use. The
// credential object is stateless, so the client lives for the whole process
// with no teardown; sync.Once keeps concurrent first calls from
// double-initializing.
func getMessagingClient() (*messaging.Client, error) {
	messagingOnce.Do(func() {
		serviceAccountKey := os.Getenv("FIREBASE_SERVICE_ACCOUNT_KEY")
		if serviceAccountKey == "" {
			messagingErr = ErrNoFirebaseKey
			return
		}

		app, err := firebase.NewApp(context.Background(), nil,
			option.WithCredentialsJSON([]byte(serviceAccountKey)))
		if err != nil {
			messagingErr = fmt.Errorf("failed to initialize Firebase app: %w", err)
			return
		}

		messagingClient, messagingErr = app.Messaging(context.Background())
	})
	return messagingClient, messagingErr
}

// PushResult reports the outcome of a single delivery attempt. Failures are
// data, not errors: the caller decides whether to log or surface them.
type PushResult struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// PushService sends notifications to device tokens via Firebase Cloud Messaging
type PushService struct{}

// NewPushService creates a push service; the FCM client itself is created
// lazily on the first send
func NewPushService() *PushService {
	return &PushService{}
}

// Send attempts one delivery to a device token and reports success or failure.
// There are no retries here; the delivery worker polls again on its own.
func (s *PushService) Send(ctx context.Context, token, title, body string) PushResult {
	client, err := getMessagingClient()
	if err != nil {
		return PushResult{Success: false, Error: err.Error()}
	}

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Token: token,
	}

	response, err := client.Send(ctx, message)
	if err != nil {
		return PushResult{Success: false, Error: err.Error()}
	}

	return PushResult{Success: true, Response: response}
}
