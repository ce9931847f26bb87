package draw

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidSeed 种子无效（必须为非负整数）
var ErrInvalidSeed = errors.New("随机种子无效：必须为非负整数")

// Source 可复现伪随机源
// 所有输出仅由种子与调用顺序决定，构造后不再引入外部熵，
// 因此持久化种子即可完整回放一次抽签。
type Source struct {
	seed int64
	rnd  *rand.Rand
}

// NewSource 创建随机源
// seed 为 nil 时从系统熵生成一个新种子；返回实际使用的种子供持久化回放。
func NewSource(seed *int64) (*Source, int64, error) {
	var s int64
	if seed != nil {
		if *seed < 0 {
			return nil, 0, ErrInvalidSeed
		}
		s = *seed
	} else {
		var buf [8]byte
		if _, err := crand.Read(buf[:]); err != nil {
			return nil, 0, fmt.Errorf("生成随机种子失败: %w", err)
		}
		// 清除符号位，保证种子非负
		s = int64(binary.BigEndian.Uint64(buf[:]) >> 1)
	}

	return &Source{seed: s, rnd: rand.New(rand.NewSource(s))}, s, nil
}

// Seed 返回构造时使用的种子
func (s *Source) Seed() int64 { return s.seed }

// Perm 返回 [0, n) 的均匀随机排列
func (s *Source) Perm(n int) []int { return s.rnd.Perm(n) }

// Float64 返回 [0.0, 1.0) 区间的随机数
func (s *Source) Float64() float64 { return s.rnd.Float64() }
