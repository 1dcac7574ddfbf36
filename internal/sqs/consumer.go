package sqs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// ConsumerAPI defines the interface for SQS operations used by Consumer.
type ConsumerAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// RefreshFunc re-executes the analytics run on request.
type RefreshFunc func(ctx context.Context) error

// RefreshMessage asks the watch-mode service for a fresh run over the
// current source data.
type RefreshMessage struct {
	Reason      string `json:"reason"`
	RequestedBy string `json:"requested_by"`
}

// Consumer long-polls the refresh queue and triggers a pipeline run per
// message.
type Consumer struct {
	client   ConsumerAPI
	queueURL string
	refresh  RefreshFunc
}

// NewConsumer creates a new SQS Consumer with the given client, queue URL,
// and refresh callback.
func NewConsumer(client ConsumerAPI, queueURL string, refresh RefreshFunc) *Consumer {
	return &Consumer{
		client:   client,
		queueURL: queueURL,
		refresh:  refresh,
	}
}

// Start begins consuming refresh requests until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("Starting refresh consumer", slog.String("queueURL", c.queueURL))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping refresh consumer")
			return ctx.Err()
		default:
			if err := c.receiveMessages(ctx); err != nil {
				slog.Error("Error receiving messages", slog.Any("err", err))
			}
		}
	}
}

func (c *Consumer) receiveMessages(ctx context.Context) error {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20, // Long polling
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, message := range result.Messages {
		if err := c.processMessage(ctx, message); err != nil {
			slog.Error("Error processing message", slog.Any("err", err))
			continue
		}

		// Delete message after successful processing
		if err := c.deleteMessage(ctx, message); err != nil {
			slog.Error("Error deleting message", slog.Any("err", err))
		}
	}

	return nil
}

func (c *Consumer) processMessage(ctx context.Context, message types.Message) error {
	if message.Body == nil {
		return fmt.Errorf("message body is nil")
	}

	var refreshMsg RefreshMessage
	if err := json.Unmarshal([]byte(*message.Body), &refreshMsg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	slog.Info("Received refresh request",
		slog.String("reason", refreshMsg.Reason),
		slog.String("requested_by", refreshMsg.RequestedBy),
	)

	if c.refresh == nil {
		return fmt.Errorf("no refresh callback configured")
	}
	if err := c.refresh(ctx); err != nil {
		return fmt.Errorf("refresh run failed: %w", err)
	}

	return nil
}

func (c *Consumer) deleteMessage(ctx context.Context, message types.Message) error {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: message.ReceiptHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
