package notify

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// SlackSender posts events to a Slack channel.
type SlackSender struct {
	client    slackClient
	channelID string
}

// SlackOpts holds parameters for creating a SlackSender.
type SlackOpts struct {
	BotToken  string // xoxb-... Slack bot token
	ChannelID string
	// For testing: inject a mock client instead of the real Slack API.
	Client slackClient
}

// NewSlackSender creates a SlackSender.
func NewSlackSender(opts SlackOpts) (*SlackSender, error) {
	if opts.Client == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("slack: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("slack: channel is required")
	}
	client := opts.Client
	if client == nil {
		client = slackapi.New(opts.BotToken)
	}
	return &SlackSender{client: client, channelID: opts.ChannelID}, nil
}

// severityColor picks the attachment sidebar color for an event.
func severityColor(evt Event) string {
	switch {
	case evt.Type == EventBatchCompleted || evt.NewStatus == "completed":
		return "#36a64f"
	case evt.Type == EventDelayDigest || evt.NewStatus == "revision_requested":
		return "#ff9800"
	case evt.NewStatus == "cancelled":
		return "#e53935"
	default:
		return "#2196f3"
	}
}

// Send posts the event as an attachment message.
func (s *SlackSender) Send(ctx context.Context, evt Event) error {
	attachment := slackapi.Attachment{
		Color: severityColor(evt),
		Title: evt.Title,
		Text:  evt.Body,
	}
	_, _, err := s.client.PostMessageContext(ctx, s.channelID,
		slackapi.MsgOptionAttachments(attachment))
	if err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	return nil
}
