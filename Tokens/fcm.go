package Tokens

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// Topic is the FCM topic every device of an account subscribes to.
func Topic(accountID int64) string {
	return fmt.Sprintf("account-%d", accountID)
}

// FCMChannel joins device tokens to the account's FCM topic.
type FCMChannel struct {
	client *messaging.Client
}

func NewFCMChannel(client *messaging.Client) *FCMChannel {
	return &FCMChannel{client: client}
}

func (f *FCMChannel) Register(ctx context.Context, accountID int64, token string) error {
	resp, err := f.client.SubscribeToTopic(ctx, []string{token}, Topic(accountID))
	if err != nil {
		return fmt.Errorf("error subscribing to %s: %w", Topic(accountID), err)
	}
	return topicError(resp)
}

func (f *FCMChannel) Unregister(ctx context.Context, accountID int64, token string) error {
	resp, err := f.client.UnsubscribeFromTopic(ctx, []string{token}, Topic(accountID))
	if err != nil {
		return fmt.Errorf("error unsubscribing from %s: %w", Topic(accountID), err)
	}
	return topicError(resp)
}

func topicError(resp *messaging.TopicManagementResponse) error {
	if resp == nil || resp.FailureCount == 0 || len(resp.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("topic management failed: %s", resp.Errors[0].Reason)
}
