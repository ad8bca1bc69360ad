package data

import (
	"context"
	"math"
	"strconv"
	"testing"
	"time"

	"fastrand/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestStreamPO_RoundTripsFullWidth(t *testing.T) {
	now := time.Now()
	s := &biz.Stream{
		Name:      "big",
		Seed:      math.MaxUint64,
		State:     0x81d87591e2f590c3,
		Draws:     1 << 63,
		CreatedAt: now,
		UpdatedAt: now,
	}
	po := toStreamPO(s)
	assert.Equal(t, int64(-1), po.Seed)
	assert.Equal(t, s, po.toBiz())
	assert.Equal(t, "random_streams", po.TableName())
}

func TestStreamHash_RoundTrip(t *testing.T) {
	now := time.Unix(0, time.Now().UnixNano())
	s := &biz.Stream{Name: "h", Seed: 7, State: math.MaxUint64, Draws: 42, CreatedAt: now, UpdatedAt: now}

	h := make(map[string]string)
	for k, v := range streamHash(s) {
		switch value := v.(type) {
		case string:
			h[k] = value
		case int64:
			h[k] = strconv.FormatInt(value, 10)
		}
	}
	got, err := parseStreamHash("h", h)
	require.NoError(t, err)
	assert.Equal(t, s.State, got.State)
	assert.Equal(t, s.Draws, got.Draws)
	assert.True(t, s.CreatedAt.Equal(got.CreatedAt))

	h["state"] = "not-hex"
	_, err = parseStreamHash("h", h)
	assert.Error(t, err)
}

func TestEncodeStreamEvent(t *testing.T) {
	at := time.Unix(1700000000, 500)
	body, err := encodeStreamEvent(biz.StreamEvent{
		Type:   biz.StreamForked,
		Stream: biz.Stream{Name: "child", Seed: math.MaxUint64, State: math.MaxUint64, Draws: 3},
		Parent: "parent",
		At:     at,
	})
	require.NoError(t, err)

	var msg structpb.Struct
	require.NoError(t, proto.Unmarshal(body, &msg))
	fields := msg.AsMap()
	assert.Equal(t, "STREAM_FORKED", fields["type"])
	assert.Equal(t, "child", fields["name"])
	assert.Equal(t, "parent", fields["parent"])
	assert.Equal(t, "ffffffffffffffff", fields["seed"])
	assert.Equal(t, "3", fields["draws"])
	ts := fields["timestamp"].(map[string]any)
	assert.Equal(t, float64(1700000000), ts["seconds"])
	assert.Equal(t, float64(500), ts["nanos"])
}

func TestNoopPublisher(t *testing.T) {
	pub, cleanup, err := NewMQPublisher(nil, log.DefaultLogger)
	require.NoError(t, err)
	defer cleanup()
	assert.NoError(t, pub.PublishStreamEvent(context.Background(), biz.StreamEvent{Type: biz.StreamCreated}))
}
