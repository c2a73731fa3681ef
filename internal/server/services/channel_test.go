package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelProfile_Counts(t *testing.T) {
	f := newFixture(t, nil)
	ch := f.register(t, "chan", "chan@x.com", "pw")
	v1 := f.register(t, "v1", "v1@x.com", "pw")
	v2 := f.register(t, "v2", "v2@x.com", "pw")
	other := f.register(t, "other", "o@x.com", "pw")

	f.store.subs = [][2]string{
		{v1.ID, ch.ID},
		{v2.ID, ch.ID},
		{ch.ID, other.ID},
		{v1.ID, other.ID},
	}

	p, err := f.channels.ChannelProfile(context.Background(), "CHAN", v1.ID)
	require.NoError(t, err)
	assert.Equal(t, "chan", p.Username)
	assert.EqualValues(t, 2, p.SubscribersCount)
	assert.EqualValues(t, 1, p.ChannelsSubscribedToCount)
	assert.True(t, p.IsSubscribed)

	p, err = f.channels.ChannelProfile(context.Background(), "chan", other.ID)
	require.NoError(t, err)
	assert.False(t, p.IsSubscribed)
}

func TestChannelProfile_Errors(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.channels.ChannelProfile(context.Background(), "   ", "v")
	requireAPIError(t, err, http.StatusBadRequest, "username is missing")

	_, err = f.channels.ChannelProfile(context.Background(), "ghost", "v")
	requireAPIError(t, err, http.StatusNotFound, "channel does not exist")

	f.store.getErr = errBoom{}
	_, err = f.channels.ChannelProfile(context.Background(), "any", "v")
	requireAPIError(t, err, http.StatusInternalServerError, "")
}

func TestWatchHistory(t *testing.T) {
	f := newFixture(t, nil)

	got, err := f.channels.WatchHistory(context.Background(), "u-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	f.store.history["u-1"] = []models.WatchedVideo{
		{ID: "v-2", Owner: models.VideoOwner{Username: "own2"}},
		{ID: "v-1", Owner: models.VideoOwner{Username: "own1"}},
	}
	got, err = f.channels.WatchHistory(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "v-2", got[0].ID)
	assert.Equal(t, "own1", got[1].Owner.Username)

	f.store.getErr = errBoom{}
	_, err = f.channels.WatchHistory(context.Background(), "u-1")
	requireAPIError(t, err, http.StatusInternalServerError, "")
}
