package services

import (
	"testing"
	"time"

	"backend/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedNoReplay(t *testing.T) {
	feed := NewPositionFeed()

	feed.Publish(entity.RiderPosition{RiderID: 1, Lat: 1})

	ch, cancel := feed.Subscribe(4)
	defer cancel()

	select {
	case p := <-ch:
		t.Fatalf("got replayed sample %+v", p)
	case <-time.After(50 * time.Millisecond):
	}

	feed.Publish(entity.RiderPosition{RiderID: 2, Lat: 2})
	select {
	case p := <-ch:
		assert.Equal(t, uint(2), p.RiderID)
	case <-time.After(time.Second):
		t.Fatal("no push after subscribe")
	}
}

func TestFeedUnsubscribeClosesChannel(t *testing.T) {
	feed := NewPositionFeed()

	ch, cancel := feed.Subscribe(1)
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// publishing after cancel must not panic
	feed.Publish(entity.RiderPosition{RiderID: 1})

	// cancel is idempotent
	cancel()
}

func TestFeedSlowSubscriberDrops(t *testing.T) {
	feed := NewPositionFeed()

	ch, cancel := feed.Subscribe(1)
	defer cancel()

	feed.Publish(entity.RiderPosition{RiderID: 1})
	feed.Publish(entity.RiderPosition{RiderID: 2}) // buffer full, dropped

	got := <-ch
	require.Equal(t, uint(1), got.RiderID)

	select {
	case p := <-ch:
		// the second publish happened after the read only if the runtime
		// interleaved; with both published first it must have been dropped
		t.Fatalf("unexpected second sample %+v", p)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFeedFanout(t *testing.T) {
	feed := NewPositionFeed()

	ch1, cancel1 := feed.Subscribe(2)
	defer cancel1()
	ch2, cancel2 := feed.Subscribe(2)
	defer cancel2()

	feed.Publish(entity.RiderPosition{RiderID: 9})

	for _, ch := range []<-chan entity.RiderPosition{ch1, ch2} {
		select {
		case p := <-ch:
			assert.Equal(t, uint(9), p.RiderID)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed fanout")
		}
	}
}
