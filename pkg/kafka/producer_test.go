package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, ParseBrokers(" kafka-1:9092, ,kafka-2:9092 "))
	assert.Nil(t, ParseBrokers(""))
}

func TestWriterFor_ReusesWriterPerTopic(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}, ClientID: "loan-risk"})

	w1 := p.writerFor("loanrisk.assessments")
	w2 := p.writerFor("loanrisk.assessments")
	w3 := p.writerFor("loanrisk.audit")

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, w3)
	assert.Equal(t, "loanrisk.assessments", w1.Topic)
	require.Len(t, p.writers, 2)

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestPublish_NoMessagesIsNoop(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})

	require.NoError(t, p.Publish(context.Background(), "loanrisk.assessments"))
	assert.Empty(t, p.writers)
}

func TestToKafkaMessages_CopiesHeaders(t *testing.T) {
	out := toKafkaMessages([]Message{{
		Key:     []byte("a1"),
		Value:   []byte(`{"tier":"LOW"}`),
		Headers: map[string]string{"event_type": "loanrisk.assessment.completed"},
	}})

	require.Len(t, out, 1)
	assert.Equal(t, []byte("a1"), out[0].Key)
	require.Len(t, out[0].Headers, 1)
	assert.Equal(t, "event_type", out[0].Headers[0].Key)
	assert.Equal(t, "loanrisk.assessment.completed", string(out[0].Headers[0].Value))
}
