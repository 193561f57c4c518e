package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/siddhixshah/News-Analysis/internal/domain"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSPublisherSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		id:       "queue-1",
		typ:      TypeSQS,
		queueURL: "https://example.com/queue",
		client:   client,
		log:      noopLogger{},
	}

	err := pub.Publish(context.Background(), Event{
		Ticker: "PNB",
		Article: domain.AnnotatedArticle{
			Article:   domain.Article{Title: "Profit surge"},
			Sentiment: domain.SentimentPositive,
		},
	})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["ticker"]
	if !ok || attr.StringValue == nil || aws.ToString(attr.StringValue) != "PNB" {
		t.Fatalf("ticker attribute missing or wrong: %#v", attr)
	}
	sentiment, ok := client.input.MessageAttributes["sentiment"]
	if !ok || aws.ToString(sentiment.StringValue) != "positive" {
		t.Fatalf("sentiment attribute missing or wrong: %#v", sentiment)
	}
	if client.input.MessageBody == nil || !strings.Contains(aws.ToString(client.input.MessageBody), `"ticker":"PNB"`) {
		t.Fatalf("MessageBody missing ticker: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSPublisherSendError(t *testing.T) {
	client := &fakeSQSClient{err: errors.New("boom")}
	pub := &sqsPublisher{
		id:       "queue-1",
		typ:      TypeSQS,
		queueURL: "https://example.com/queue",
		client:   client,
		log:      noopLogger{},
	}

	if err := pub.Publish(context.Background(), Event{Ticker: "PNB"}); err == nil {
		t.Fatalf("expected error from Publish")
	}
}
