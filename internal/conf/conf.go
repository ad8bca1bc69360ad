// Package conf 服务启动配置，由 kratos config 从 configs/config.yaml 扫描得到。
// 字段访问统一走 nil 安全的 Get 方法，缺省的配置段返回零值。
package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap 配置根
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Random *Random `json:"random"`
}

func (x *Bootstrap) GetServer() *Server {
	if x != nil {
		return x.Server
	}
	return nil
}

func (x *Bootstrap) GetData() *Data {
	if x != nil {
		return x.Data
	}
	return nil
}

func (x *Bootstrap) GetRandom() *Random {
	if x != nil {
		return x.Random
	}
	return nil
}

// Server 对外监听配置
type Server struct {
	Http *Server_HTTP `json:"http"`
	Grpc *Server_GRPC `json:"grpc"`
}

type Server_HTTP struct {
	Network string    `json:"network"`
	Addr    string    `json:"addr"`
	Timeout *Duration `json:"timeout"`
}

type Server_GRPC struct {
	Network string    `json:"network"`
	Addr    string    `json:"addr"`
	Timeout *Duration `json:"timeout"`
}

func (x *Server) GetHttp() *Server_HTTP {
	if x != nil {
		return x.Http
	}
	return nil
}

func (x *Server) GetGrpc() *Server_GRPC {
	if x != nil {
		return x.Grpc
	}
	return nil
}

func (x *Server_HTTP) GetNetwork() string {
	if x != nil {
		return x.Network
	}
	return ""
}

func (x *Server_HTTP) GetAddr() string {
	if x != nil {
		return x.Addr
	}
	return ""
}

func (x *Server_HTTP) GetTimeout() *Duration {
	if x != nil {
		return x.Timeout
	}
	return nil
}

func (x *Server_GRPC) GetNetwork() string {
	if x != nil {
		return x.Network
	}
	return ""
}

func (x *Server_GRPC) GetAddr() string {
	if x != nil {
		return x.Addr
	}
	return ""
}

func (x *Server_GRPC) GetTimeout() *Duration {
	if x != nil {
		return x.Timeout
	}
	return nil
}

// Data 存储与消息中间件配置
type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
	Rabbitmq *Data_Rabbitmq `json:"rabbitmq"`
}

type Data_Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

type Data_Redis struct {
	Network      string    `json:"network"`
	Addr         string    `json:"addr"`
	Password     string    `json:"password"`
	Db           int32     `json:"db"`
	ReadTimeout  *Duration `json:"read_timeout"`
	WriteTimeout *Duration `json:"write_timeout"`
}

type Data_Rabbitmq struct {
	Url      string `json:"url"`
	Exchange string `json:"exchange"`
	Queue    string `json:"queue"`
}

func (x *Data) GetDatabase() *Data_Database {
	if x != nil {
		return x.Database
	}
	return nil
}

func (x *Data) GetRedis() *Data_Redis {
	if x != nil {
		return x.Redis
	}
	return nil
}

func (x *Data) GetRabbitmq() *Data_Rabbitmq {
	if x != nil {
		return x.Rabbitmq
	}
	return nil
}

func (x *Data_Database) GetDriver() string {
	if x != nil {
		return x.Driver
	}
	return ""
}

func (x *Data_Database) GetSource() string {
	if x != nil {
		return x.Source
	}
	return ""
}

func (x *Data_Redis) GetNetwork() string {
	if x != nil {
		return x.Network
	}
	return ""
}

func (x *Data_Redis) GetAddr() string {
	if x != nil {
		return x.Addr
	}
	return ""
}

func (x *Data_Redis) GetPassword() string {
	if x != nil {
		return x.Password
	}
	return ""
}

func (x *Data_Redis) GetDb() int32 {
	if x != nil {
		return x.Db
	}
	return 0
}

func (x *Data_Redis) GetReadTimeout() *Duration {
	if x != nil {
		return x.ReadTimeout
	}
	return nil
}

func (x *Data_Redis) GetWriteTimeout() *Duration {
	if x != nil {
		return x.WriteTimeout
	}
	return nil
}

func (x *Data_Rabbitmq) GetUrl() string {
	if x != nil {
		return x.Url
	}
	return ""
}

func (x *Data_Rabbitmq) GetExchange() string {
	if x != nil {
		return x.Exchange
	}
	return ""
}

func (x *Data_Rabbitmq) GetQueue() string {
	if x != nil {
		return x.Queue
	}
	return ""
}

// Random 随机数流服务配置
type Random struct {
	// Seed 非 0 时用于播种进程生成器，未指定种子的新流从它派生
	Seed          uint64    `json:"seed"`
	ReseedStream  string    `json:"reseed_stream"`
	ReseedGroup   string    `json:"reseed_group"`
	CheckpointTtl *Duration `json:"checkpoint_ttl"`
}

func (x *Random) GetSeed() uint64 {
	if x != nil {
		return x.Seed
	}
	return 0
}

func (x *Random) GetReseedStream() string {
	if x != nil && x.ReseedStream != "" {
		return x.ReseedStream
	}
	return "random:reseed"
}

func (x *Random) GetReseedGroup() string {
	if x != nil && x.ReseedGroup != "" {
		return x.ReseedGroup
	}
	return "randd"
}

func (x *Random) GetCheckpointTtl() *Duration {
	if x != nil {
		return x.CheckpointTtl
	}
	return nil
}

// Duration 可从 "1.5s" 形式的字符串或纳秒整数解析的时长
type Duration struct {
	time.Duration
}

// AsDuration 返回时长，nil 时为 0
func (d *Duration) AsDuration() time.Duration {
	if d == nil {
		return 0
	}
	return d.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = dur
	default:
		return fmt.Errorf("invalid duration: %s", b)
	}
	return nil
}
