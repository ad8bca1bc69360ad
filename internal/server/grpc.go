package server

import (
	"fastrand/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	ggrpc "google.golang.org/grpc"
)

// 流服务只通过 HTTP 暴露，gRPC 端口提供 grpc.health.v1.Health
// （kratos 在 Start 时置为 SERVING，Stop 时置为 NOT_SERVING）。
const maxRecvMsgSize = 1 << 20

// NewGRPCServer new a gRPC server.
func NewGRPCServer(c *conf.Server, logger log.Logger) *grpc.Server {
	var opts = []grpc.ServerOption{
		grpc.Middleware(
			recovery.Recovery(),
		),
		grpc.Options(ggrpc.MaxRecvMsgSize(maxRecvMsgSize)),
	}
	if c.GetGrpc().GetNetwork() != "" {
		opts = append(opts, grpc.Network(c.GetGrpc().GetNetwork()))
	}
	if c.GetGrpc().GetAddr() != "" {
		opts = append(opts, grpc.Address(c.GetGrpc().GetAddr()))
	}
	if c.GetGrpc().GetTimeout() != nil {
		opts = append(opts, grpc.Timeout(c.GetGrpc().GetTimeout().AsDuration()))
	}
	return grpc.NewServer(opts...)
}
