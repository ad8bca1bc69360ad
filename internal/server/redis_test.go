package server

import (
	"testing"

	"fastrand/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReseed(t *testing.T) {
	tests := []struct {
		name     string
		values   map[string]interface{}
		wantName string
		wantSeed uint64
		wantErr  bool
	}{
		{"decimal", map[string]interface{}{"name": "dice", "seed": "7"}, "dice", 7, false},
		{"hex", map[string]interface{}{"name": "dice", "seed": "0x4d595df4d0f33173"}, "dice", 0x4d595df4d0f33173, false},
		{"max", map[string]interface{}{"name": "d", "seed": "18446744073709551615"}, "d", 18446744073709551615, false},
		{"missing name", map[string]interface{}{"seed": "7"}, "", 0, true},
		{"missing seed", map[string]interface{}{"name": "dice"}, "", 0, true},
		{"negative seed", map[string]interface{}{"name": "dice", "seed": "-1"}, "", 0, true},
		{"garbage seed", map[string]interface{}{"name": "dice", "seed": "abc"}, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, seed, err := parseReseed(tt.values)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantSeed, seed)
		})
	}
}

func TestNewReseedStreamServers_WithoutRedis(t *testing.T) {
	assert.Nil(t, NewReseedStreamServers(nil, nil, nil, log.DefaultLogger))
	assert.Nil(t, NewRedisServer(&conf.Data{}, log.DefaultLogger))
}

func TestNewReseedStreamServer_Defaults(t *testing.T) {
	s := NewReseedStreamServer(nil, &conf.Random{ReseedStream: "custom"}, nil, log.DefaultLogger)
	assert.Equal(t, "custom", s.stream)
	assert.Equal(t, "randd", s.group)
	assert.NotEmpty(t, s.consumer)
}
