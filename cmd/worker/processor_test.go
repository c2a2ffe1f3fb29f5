package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/imrishuroy/go-storefront/internal/webhook"
)

type post struct {
	target webhook.Target
	body   string
}

type mockPoster struct {
	posts []post
	fail  map[string]error
}

func (m *mockPoster) Post(_ context.Context, target webhook.Target, body []byte) error {
	m.posts = append(m.posts, post{target: target, body: string(body)})
	return m.fail[target.Name]
}

type mockCounter struct{ counts map[string]int }

func (m *mockCounter) Count(_ context.Context, name string, n int) error {
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[name] += n
	return nil
}

func envelope(t *testing.T, target, url, payload string) events.SQSMessage {
	t.Helper()
	body, err := json.Marshal(webhook.Envelope{Target: target, URL: url, Payload: json.RawMessage(payload)})
	require.NoError(t, err)
	return events.SQSMessage{MessageId: target + "-msg", Body: string(body)}
}

func TestProcessor_RelaysEnvelopes(t *testing.T) {
	poster := &mockPoster{}
	p := NewProcessor(poster, nil, nil)

	ev := events.SQSEvent{Records: []events.SQSMessage{
		envelope(t, "order", "https://hooks.example.com/order", `{"id":"GC-1"}`),
		envelope(t, "return", "https://hooks.example.com/return", `{"orderId":"GC-1"}`),
	}}
	require.NoError(t, p.Handle(context.Background(), ev))

	require.Len(t, poster.posts, 2)
	assert.Equal(t, "https://hooks.example.com/order", poster.posts[0].target.URL)
	assert.JSONEq(t, `{"id":"GC-1"}`, poster.posts[0].body)
	assert.Equal(t, "return", poster.posts[1].target.Name)
}

func TestProcessor_FailuresAreSwallowed(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	poster := &mockPoster{fail: map[string]error{"order": errors.New("502 bad gateway")}}
	counter := &mockCounter{}
	p := NewProcessor(poster, counter, zap.New(core))

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "bad", Body: "not-json"},
		envelope(t, "order", "https://hooks.example.com/order", `{"id":"GC-2"}`),
		envelope(t, "exchange", "", `{"id":"GC-3"}`),
		envelope(t, "return", "https://hooks.example.com/return", `{"orderId":"GC-2"}`),
	}}
	require.NoError(t, p.Handle(context.Background(), ev))

	assert.Len(t, poster.posts, 2)
	assert.Equal(t, 3, counter.counts[metricWebhookFailures])
	assert.Equal(t, 3, logs.FilterMessage("webhook relay failed").Len())
}
