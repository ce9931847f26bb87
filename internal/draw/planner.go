package draw

import (
	"errors"
	"sort"
)

// ErrEmptyInput 没有期间或没有公寓，抽签无法产生任何分配
var ErrEmptyInput = errors.New("抽签输入为空：至少需要一个期间和一套公寓")

// 未满足愿望的原因码
const (
	ReasonNoCapacity       = "no_capacity"        // 该期间的公寓已被分完
	ReasonUserLimitReached = "user_limit_reached" // 用户已达本轮分配上限
	ReasonInvalidWish      = "invalid_wish"       // 愿望未通过校验，被排除
	ReasonDuplicateWish    = "duplicate_wish"     // 同期间重复愿望，被策略排除或用户已中签
)

// Config 分配算法参数
// 平局与跨期间策略均可配置，不写死在算法里。
type Config struct {
	// MaxAllocationsPerUser 单个用户在一轮抽签内的分配上限，<=0 时取默认值 2
	MaxAllocationsPerUser int
	// DuplicatePolicy 同一用户对同一期间多条愿望的处理策略
	// "lowest_priority_only"（默认）：仅 priority 最小的一条参与
	// "all_eligible"：全部参与，用户在该期间中签后其余自动落选
	DuplicatePolicy string
}

// DefaultMaxAllocationsPerUser 默认单用户分配上限
const DefaultMaxAllocationsPerUser = 2

func (c Config) maxPerUser() int {
	if c.MaxAllocationsPerUser <= 0 {
		return DefaultMaxAllocationsPerUser
	}
	return c.MaxAllocationsPerUser
}

// ════════════════════════════════════════════════════════════
// Plan — 贪心 + 种子化公平抽签
// ════════════════════════════════════════════════════════════
//
// 期间按 sort_order 升序逐个处理；期间内按 priority 分层（tier），
// 层内用户顺序由种子排列决定（每个 tier 重新排列，避免任何用户
// 被系统性偏袒）。用户按排列顺序挑选其愿望中第一套尚未被占用、
// 且不会超出个人上限的公寓。
//
// 靠前的期间会先消耗用户的分配额度——这是有意设计：管理员将
// 竞争激烈的期间排在前面即可提高其优先级。
//
// 对结构完整的输入，Plan 永不中途失败：未被满足的需求全部进入
// unmet 列表，而不是抛错。
func Plan(idx *WishIndex, cfg Config, src *Source) (*Result, error) {
	if len(idx.PeriodsInOrder()) == 0 || idx.ApartmentCount() == 0 {
		return nil, ErrEmptyInput
	}

	maxPerUser := cfg.maxPerUser()

	var allocations []Allocation
	var unmet []UnmetWish
	allocCount := make(map[string]int) // userID → 已获分配数

	// 1. 无效愿望直接落选（每条愿望恰好出现一次）
	for _, wid := range idx.InvalidWishes() {
		unmet = append(unmet, UnmetWish{WishID: wid, Reason: ReasonInvalidWish})
	}

	// 2. 重复愿望策略：lowest_priority_only 时仅保留 priority 最小的一条
	excluded := make(map[string]struct{})
	if cfg.DuplicatePolicy != "all_eligible" {
		for _, p := range idx.PeriodsInOrder() {
			best := make(map[string]Wish) // userID → 保留的愿望
			for _, w := range idx.WishesForPeriod(p.ID) {
				cur, ok := best[w.UserID]
				if !ok || w.Priority < cur.Priority || (w.Priority == cur.Priority && w.ID < cur.ID) {
					best[w.UserID] = w
				}
			}
			for _, w := range idx.WishesForPeriod(p.ID) {
				if best[w.UserID].ID != w.ID {
					excluded[w.ID] = struct{}{}
					unmet = append(unmet, UnmetWish{WishID: w.ID, Reason: ReasonDuplicateWish})
				}
			}
		}
	}

	// 3. 逐期间分配
	for _, p := range idx.PeriodsInOrder() {
		taken := make(map[string]struct{}) // 本期间已占用的公寓
		periodWon := make(map[string]bool) // 本期间已中签的用户

		// 按 priority 分层
		var tiers []int
		tierWishes := make(map[int][]Wish)
		for _, w := range idx.WishesForPeriod(p.ID) {
			if _, ok := excluded[w.ID]; ok {
				continue
			}
			if _, ok := tierWishes[w.Priority]; !ok {
				tiers = append(tiers, w.Priority)
			}
			tierWishes[w.Priority] = append(tierWishes[w.Priority], w)
		}
		sort.Ints(tiers)

		for _, tier := range tiers {
			ws := tierWishes[tier] // 已按 wish_id 稳定排序
			// 层内唯一的平局决胜：种子排列
			perm := src.Perm(len(ws))
			for _, i := range perm {
				w := ws[i]

				if periodWon[w.UserID] {
					// all_eligible 策略下，用户已在本期间中签，其余愿望落选
					unmet = append(unmet, UnmetWish{WishID: w.ID, Reason: ReasonDuplicateWish})
					continue
				}
				if allocCount[w.UserID] >= maxPerUser {
					unmet = append(unmet, UnmetWish{WishID: w.ID, Reason: ReasonUserLimitReached})
					continue
				}

				assigned := false
				for rank, aid := range w.ApartmentIDs {
					if !idx.HasApartment(aid) {
						continue // 无效引用已在校验中上报，这里直接跳过
					}
					if _, ok := taken[aid]; ok {
						continue
					}
					allocations = append(allocations, Allocation{
						UserID:        w.UserID,
						PeriodID:      p.ID,
						ApartmentID:   aid,
						WishID:        w.ID,
						ApartmentRank: rank,
					})
					taken[aid] = struct{}{}
					allocCount[w.UserID]++
					periodWon[w.UserID] = true
					assigned = true
					break
				}
				if !assigned {
					unmet = append(unmet, UnmetWish{WishID: w.ID, Reason: ReasonNoCapacity})
				}
			}
		}
	}

	return &Result{
		Seed:        src.Seed(),
		Allocations: allocations,
		Unmet:       unmet,
		Summary: Summary{
			PeriodCount:    len(idx.PeriodsInOrder()),
			WishCount:      idx.WishCount(),
			AllocatedCount: len(allocations),
			UnmetCount:     len(unmet),
		},
	}, nil
}
