package network

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChannelIDIsUniqueAndNonEmpty(t *testing.T) {
	first := NewChannelID()
	second := NewChannelID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestFakeConnectorAssignsChannelIDWhenUnset(t *testing.T) {
	connector := &FakeConnector{}
	channel := NewFakeChannel("", Authority{Host: "1.2.3.4"}, 1000)
	connector.Enqueue(channel, nil)

	got, err := connector.Connect(context.Background(), Authority{Host: "1.2.3.4"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID())
}

func TestFakeConnectorKeepsExplicitChannelID(t *testing.T) {
	connector := &FakeConnector{}
	channel := NewFakeChannel("good", Authority{Host: "1.2.3.4"}, 1000)
	connector.Enqueue(channel, nil)

	got, err := connector.Connect(context.Background(), Authority{Host: "1.2.3.4"})
	require.NoError(t, err)
	assert.Equal(t, "good", got.ID())
}
