package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationStreamCreateStream     = "/randd.stream.v1.Stream/CreateStream"
	OperationStreamGetStream        = "/randd.stream.v1.Stream/GetStream"
	OperationStreamDeleteStream     = "/randd.stream.v1.Stream/DeleteStream"
	OperationStreamReseed           = "/randd.stream.v1.Stream/Reseed"
	OperationStreamFork             = "/randd.stream.v1.Stream/Fork"
	OperationStreamDrawU64          = "/randd.stream.v1.Stream/DrawU64"
	OperationStreamDrawI64          = "/randd.stream.v1.Stream/DrawI64"
	OperationStreamDrawF64          = "/randd.stream.v1.Stream/DrawF64"
	OperationStreamDrawBool         = "/randd.stream.v1.Stream/DrawBool"
	OperationStreamDrawDigit        = "/randd.stream.v1.Stream/DrawDigit"
	OperationStreamDrawAlphanumeric = "/randd.stream.v1.Stream/DrawAlphanumeric"
	OperationStreamShuffle          = "/randd.stream.v1.Stream/Shuffle"
	OperationStreamChoose           = "/randd.stream.v1.Stream/Choose"
	OperationStreamDrawBytes        = "/randd.stream.v1.Stream/DrawBytes"
)

type empty struct{}

// RegisterStreamHTTPServer 注册流服务的 HTTP 路由，每个路由都经过服务器中间件
func RegisterStreamHTTPServer(s *http.Server, srv *StreamService) {
	r := s.Route("/v1")
	r.POST("/streams", withBody(OperationStreamCreateStream, func(ctx context.Context, _ string, in *CreateStreamRequest) (*StreamReply, error) {
		return srv.CreateStream(ctx, in)
	}))
	r.GET("/streams/{name}", withoutBody(OperationStreamGetStream, srv.GetStream))
	r.DELETE("/streams/{name}", withoutBody(OperationStreamDeleteStream, func(ctx context.Context, name string) (*empty, error) {
		return &empty{}, srv.DeleteStream(ctx, name)
	}))
	r.POST("/streams/{name}/seed", withBody(OperationStreamReseed, srv.Reseed))
	r.POST("/streams/{name}/fork", withBody(OperationStreamFork, srv.Fork))
	r.POST("/streams/{name}/u64", withBody(OperationStreamDrawU64, srv.DrawU64))
	r.POST("/streams/{name}/i64", withBody(OperationStreamDrawI64, srv.DrawI64))
	r.POST("/streams/{name}/f64", withoutBody(OperationStreamDrawF64, srv.DrawF64))
	r.POST("/streams/{name}/bool", withoutBody(OperationStreamDrawBool, srv.DrawBool))
	r.POST("/streams/{name}/digit", withBody(OperationStreamDrawDigit, srv.DrawDigit))
	r.POST("/streams/{name}/alphanumeric", withBody(OperationStreamDrawAlphanumeric, srv.DrawAlphanumeric))
	r.POST("/streams/{name}/shuffle", withBody(OperationStreamShuffle, srv.Shuffle))
	r.POST("/streams/{name}/choose", withBody(OperationStreamChoose, srv.Choose))
	r.POST("/streams/{name}/bytes", withBody(OperationStreamDrawBytes, srv.DrawBytes))
}

// withBody 解析请求体后经中间件调用 fn，路径参数 name 作为第二个参数
func withBody[Req, Reply any](operation string, fn func(context.Context, string, *Req) (*Reply, error)) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in Req
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, operation)
		name := ctx.Vars().Get("name")
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return fn(ctx, name, req.(*Req))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func withoutBody[Reply any](operation string, fn func(context.Context, string) (*Reply, error)) http.HandlerFunc {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, operation)
		name := ctx.Vars().Get("name")
		h := ctx.Middleware(func(ctx context.Context, _ any) (any, error) {
			return fn(ctx, name)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}
