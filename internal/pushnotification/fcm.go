package pushnotification

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/v4/messaging"

	"github.com/stadtportal/city-portal-backend/utils"
)

// Channel abstracts the delivery backend so sends can be tested without a
// Firebase project.
type Channel interface {
	SendToTopic(topic, title, body string) error
	SendToTokens(tokens []string, title, body string) ([]string, error)
}

// FCMChannel delivers via Firebase Cloud Messaging. Messages go to the
// region/language/channel topic the apps subscribe to; direct token sends
// cover installations registered before topic subscriptions existed.
type FCMChannel struct {
	ctx context.Context
}

func NewFCMChannel() *FCMChannel {
	return &FCMChannel{ctx: context.Background()}
}

// TopicName builds the FCM topic for one region, language and channel
func TopicName(regionSlug, langSlug, channel string) string {
	return fmt.Sprintf("%s-%s-%s", regionSlug, langSlug, channel)
}

func (f *FCMChannel) SendToTopic(topic, title, body string) error {
	client := utils.GetFCMClient()
	if client == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:        "default",
				ChannelID:    "city_portal_news",
				Priority:     messaging.PriorityHigh,
				DefaultSound: true,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	response, err := client.Send(f.ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send topic message: %v", err)
	}
	log.Printf("✅ FCM topic message sent to %s: %s", topic, response)
	return nil
}

// SendToTokens delivers to device tokens in batches of 500 (the FCM
// multicast limit) and returns the tokens FCM rejected.
func (f *FCMChannel) SendToTokens(tokens []string, title, body string) ([]string, error) {
	client := utils.GetFCMClient()
	if client == nil {
		return nil, fmt.Errorf("FCM client not initialized")
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	batchSize := 500
	var failedTokens []string
	successCount := 0

	for i := 0; i < len(tokens); i += batchSize {
		end := i + batchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		batch := tokens[i:end]
		message := &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					Sound:        "default",
					ChannelID:    "city_portal_news",
					Priority:     messaging.PriorityHigh,
					DefaultSound: true,
				},
			},
		}

		response, err := client.SendMulticast(f.ctx, message)
		if err != nil {
			log.Printf("❌ Error sending FCM multicast batch: %v", err)
			failedTokens = append(failedTokens, batch...)
			continue
		}

		successCount += response.SuccessCount
		if response.FailureCount > 0 {
			for idx, resp := range response.Responses {
				if !resp.Success {
					failedTokens = append(failedTokens, batch[idx])
				}
			}
		}
	}

	log.Printf("✅ FCM multicast: %d/%d messages sent", successCount, len(tokens))
	return failedTokens, nil
}
