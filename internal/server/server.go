package server

import (
	"fastrand/internal/conf"
	"fastrand/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/google/wire"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(
	NewGRPCServer,
	NewHTTPServer,
	NewRedisServer,
	NewReseedStreamServers,
)

// NewReseedStreamServers 创建重新播种消费服务器，Redis 不可用时不创建
func NewReseedStreamServers(
	c *conf.Random,
	rs *RedisServer,
	stream *service.StreamService,
	logger log.Logger,
) []transport.Server {
	helper := log.NewHelper(log.With(logger, "module", "server"))

	if rs == nil || rs.Client() == nil {
		helper.Warn("redis not available, skip reseed stream server")
		return nil
	}

	server := NewReseedStreamServer(rs.Client(), c, stream, logger)
	helper.Infof("created reseed stream server: stream=%s group=%s", c.GetReseedStream(), c.GetReseedGroup())
	return []transport.Server{server}
}
