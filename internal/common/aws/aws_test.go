package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	input *ses.SendEmailInput
	err   error
}

func (m *mockSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

type mockSNS struct {
	input *sns.PublishInput
	err   error
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{MessageId: aws.String("evt-1")}, nil
}

func TestSESClient_SendText(t *testing.T) {
	svc := &mockSES{}
	client := NewSESClientWithService(svc, "reports@docmagic.app")

	id, err := client.SendText(context.Background(), "user@example.com", "Report", "Score: 90/100")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, []string{"user@example.com"}, svc.input.Destination.ToAddresses)
	assert.Equal(t, "reports@docmagic.app", aws.ToString(svc.input.Source))
	assert.Equal(t, "Score: 90/100", aws.ToString(svc.input.Message.Body.Text.Data))

	_, err = client.SendText(context.Background(), "", "Report", "body")
	assert.Error(t, err)

	svc.err = errors.New("throttled")
	_, err = client.SendText(context.Background(), "user@example.com", "Report", "body")
	assert.EqualError(t, err, "throttled")
}

func TestSNSClient_PublishEvent(t *testing.T) {
	svc := &mockSNS{}
	client := NewSNSClientWithService(svc, "arn:aws:sns:us-east-1:123:templates")

	id, err := client.PublishEvent(context.Background(), "template.validated", map[string]interface{}{"templateId": "t1"})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", id)
	assert.Equal(t, "arn:aws:sns:us-east-1:123:templates", aws.ToString(svc.input.TopicArn))
	assert.Equal(t, "template.validated", aws.ToString(svc.input.MessageAttributes["eventType"].StringValue))

	var msg map[string]string
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(svc.input.Message)), &msg))
	assert.Equal(t, "t1", msg["templateId"])

	_, err = client.PublishEvent(context.Background(), "bad", map[string]interface{}{"fn": func() {}})
	assert.Error(t, err)
}
