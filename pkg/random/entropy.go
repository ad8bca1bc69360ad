package random

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
)

var (
	processStart = time.Now()
	identities   atomic.Uint64
)

// Seeder 根据实例标识返回初始种子，只在实例首次使用时调用
type Seeder func(id uint64) uint64

// entropy 用 xxhash 混合时钟读数与实例标识，结果强制为奇数
func entropy(id uint64) uint64 {
	var buf [24]byte
	now := time.Now()
	binary.LittleEndian.PutUint64(buf[0:8], uint64(now.UnixNano()))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(now.Sub(processStart)))
	binary.LittleEndian.PutUint64(buf[16:24], id)
	return xxhash.Sum64(buf[:])<<1 | 1
}
