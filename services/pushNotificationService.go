package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/doug-martin/goqu/v9"
	"google.golang.org/api/option"

	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"
)

type PushNotificationService struct {
	fcmClient *messaging.Client
}

type NotificationPayload struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    string            `json:"sound,omitempty"`
	Badge    string            `json:"badge,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

var pushService *PushNotificationService

// InitPushNotificationService connects to FCM. On failure the service stays
// nil and notifications are skipped.
func InitPushNotificationService() {
	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")

	var app *firebase.App
	var err error

	if serviceAccountPath != "" {
		opt := option.WithCredentialsFile(serviceAccountPath)
		app, err = firebase.NewApp(context.Background(), nil, opt)
		if err != nil {
			log.Printf("Failed to initialize Firebase app with service account: %v", err)
			return
		}
		log.Println("Firebase initialized with service account file")
	} else {
		app, err = firebase.NewApp(context.Background(), nil)
		if err != nil {
			log.Printf("Failed to initialize Firebase app with ADC: %v", err)
			return
		}
		log.Println("Firebase initialized with Application Default Credentials")
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("Failed to get Firebase messaging client: %v", err)
		return
	}

	pushService = &PushNotificationService{fcmClient: client}
	log.Println("Push notification service initialized successfully with FCM")
}

func GetPushNotificationService() *PushNotificationService {
	return pushService
}

func (s *PushNotificationService) SendNotificationToUser(userID int, payload NotificationPayload) error {
	var tokens []models.PushToken
	err := initializers.DB.From("user_push_tokens").
		Where(goqu.C("user_profile_id").Eq(userID)).
		ScanStructs(&tokens)
	if err != nil {
		return fmt.Errorf("failed to get push tokens for user %d: %w", userID, err)
	}

	if len(tokens) == 0 {
		return nil
	}

	for _, token := range tokens {
		if err := s.sendToToken(token, payload); err != nil {
			log.Printf("Failed to send notification to user %d (%s): %v", userID, token.Platform, err)
		}
	}
	return nil
}

func (s *PushNotificationService) sendToToken(pushToken models.PushToken, payload NotificationPayload) error {
	if s.fcmClient == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	message := buildFCMMessage(pushToken, payload)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := s.fcmClient.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	log.Printf("Sent FCM notification. Message ID: %s", response)
	return nil
}

func buildFCMMessage(pushToken models.PushToken, payload NotificationPayload) *messaging.Message {
	message := &messaging.Message{
		Token: pushToken.PushToken,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: payload.Data,
	}

	switch pushToken.Platform {
	case "ios":
		message.APNS = &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: payload.Title,
						Body:  payload.Body,
					},
					Sound: payload.Sound,
				},
			},
		}
		if payload.Badge != "" {
			if badgeNum, err := strconv.Atoi(payload.Badge); err == nil {
				message.APNS.Payload.Aps.Badge = &badgeNum
			}
		}
		if payload.Priority == "high" {
			message.APNS.Headers = map[string]string{"apns-priority": "10"}
		}
	case "android":
		message.Android = &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				Title: payload.Title,
				Body:  payload.Body,
				Sound: payload.Sound,
			},
			Priority: "normal",
		}
		if payload.Priority == "high" {
			message.Android.Priority = "high"
		}
	}

	return message
}
