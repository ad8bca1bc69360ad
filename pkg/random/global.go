package random

// 包级函数操作进程默认的 Local。
// 单个 goroutine 顺序调用时输出由 Seed 完全决定；多个 goroutine 同时调用是安全的，
// 但争用时的输出来自备用生成器派生的实例，不属于该序列。

var defaultLocal = NewLocal()

// Default 返回包级函数使用的默认 Local，可传给 ShuffleSlice、Choice 等泛型函数
func Default() *Local { return defaultLocal }

// Seed 重新播种默认实例
func Seed(seed uint64) { defaultLocal.Seed(seed) }

// GetSeed 返回默认实例的当前状态字
func GetSeed() uint64 { return defaultLocal.GetSeed() }

// Fork 从默认实例派生一个独立的生成器
func Fork() *Generator { return defaultLocal.Fork() }

// Bool 生成随机布尔值
func Bool() bool { return defaultLocal.Bool() }

// Uint32 生成 32 位随机数
func Uint32() uint32 { return defaultLocal.Uint32() }

// Uint64 生成 64 位随机数
func Uint64() uint64 { return defaultLocal.Uint64() }

func U8(r Range[uint8]) (uint8, error)       { return defaultLocal.U8(r) }
func U16(r Range[uint16]) (uint16, error)    { return defaultLocal.U16(r) }
func U32(r Range[uint32]) (uint32, error)    { return defaultLocal.U32(r) }
func U64(r Range[uint64]) (uint64, error)    { return defaultLocal.U64(r) }
func U128(r Range[Uint128]) (Uint128, error) { return defaultLocal.U128(r) }
func Usize(r Range[uint]) (uint, error)      { return defaultLocal.Usize(r) }
func I8(r Range[int8]) (int8, error)         { return defaultLocal.I8(r) }
func I16(r Range[int16]) (int16, error)      { return defaultLocal.I16(r) }
func I32(r Range[int32]) (int32, error)      { return defaultLocal.I32(r) }
func I64(r Range[int64]) (int64, error)      { return defaultLocal.I64(r) }
func I128(r Range[Int128]) (Int128, error)   { return defaultLocal.I128(r) }
func Isize(r Range[int]) (int, error)        { return defaultLocal.Isize(r) }

// Alphabetic 生成 a-z、A-Z 之间的随机字符
func Alphabetic() rune { return defaultLocal.Alphabetic() }

// Alphanumeric 生成 a-z、A-Z、0-9 之间的随机字符
func Alphanumeric() rune { return defaultLocal.Alphanumeric() }

// Lowercase 生成 a-z 之间的随机字符
func Lowercase() rune { return defaultLocal.Lowercase() }

// Uppercase 生成 A-Z 之间的随机字符
func Uppercase() rune { return defaultLocal.Uppercase() }

// Digit 生成 base 进制下的随机数字
func Digit(base uint32) (rune, error) { return defaultLocal.Digit(base) }

// Char 在区间内生成合法的 Unicode 标量值
func Char(r Range[rune]) (rune, error) { return defaultLocal.Char(r) }

// F32 生成 [0, 1) 之间的 float32
func F32() float32 { return defaultLocal.F32() }

// F64 生成 [0, 1) 之间的 float64
func F64() float64 { return defaultLocal.F64() }

// Shuffle 随机打乱 n 个元素
func Shuffle(n int, swap func(i, j int)) { defaultLocal.Shuffle(n, swap) }

// Fill 用随机字节填满 b
func Fill(b []byte) { defaultLocal.Fill(b) }
