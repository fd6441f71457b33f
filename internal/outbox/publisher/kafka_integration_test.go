//go:build integration

package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"onboard/internal/outbox"
	"onboard/pkg/testutil/containers"
)

func TestKafka_PublishesWithHeaders(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	broker := containers.GetManager().GetRedpanda(t).Broker
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pub, err := NewKafka([]string{broker}, "onboard.test.organizations")
	require.NoError(t, err)
	defer pub.Close()
	require.NoError(t, pub.EnsureTopic(ctx, 1, 1))
	require.NoError(t, pub.EnsureTopic(ctx, 1, 1), "existing topic is not an error")

	event, err := outbox.NewEvent(outbox.AggregateOrganization, "c_a345", outbox.EventOrganizationRegistered,
		map[string]string{"code": "c_a345"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, pub.Publish(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics("onboard.test.organizations"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)

	record := records[0]
	require.Equal(t, "c_a345", string(record.Key))
	require.JSONEq(t, `{"code":"c_a345"}`, string(record.Value))
	headers := map[string]string{}
	for _, h := range record.Headers {
		headers[h.Key] = string(h.Value)
	}
	require.Equal(t, event.ID.String(), headers["event_id"])
	require.Equal(t, outbox.EventOrganizationRegistered, headers["event_type"])
}
