package draw

import "sort"

// Allocation 一条分配结果：(用户, 期间, 公寓) 加上来源愿望
type Allocation struct {
	UserID        string `json:"user_id"`
	PeriodID      string `json:"period_id"`
	ApartmentID   string `json:"apartment_id"`
	WishID        string `json:"wish_id"`
	ApartmentRank int    `json:"apartment_rank"` // 在来源愿望公寓列表中的位置（0 为首选）
}

// UnmetWish 未被满足的愿望及原因
type UnmetWish struct {
	WishID string `json:"wish_id"`
	Reason string `json:"reason"`
}

// Summary 汇总计数
type Summary struct {
	PeriodCount    int `json:"period_count"`
	WishCount      int `json:"wish_count"`
	AllocatedCount int `json:"allocated_count"`
	UnmetCount     int `json:"unmet_count"`
}

// Result 一次抽签的完整输出
// 不可变：重抽时整体替换，不做增量修补。
type Result struct {
	Seed        int64        `json:"seed"`
	Allocations []Allocation `json:"allocations"`
	Unmet       []UnmetWish  `json:"unmet"`
	Summary     Summary      `json:"summary"`
}

// Equal 判断两次结果是否一致（用于种子回放验证）
// 与存储顺序解耦：比对前先做规范化排序。
func (r *Result) Equal(other *Result) bool {
	if other == nil || r.Seed != other.Seed {
		return false
	}
	if len(r.Allocations) != len(other.Allocations) || len(r.Unmet) != len(other.Unmet) {
		return false
	}
	a, b := sortedAllocations(r.Allocations), sortedAllocations(other.Allocations)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	u, v := sortedUnmet(r.Unmet), sortedUnmet(other.Unmet)
	for i := range u {
		if u[i] != v[i] {
			return false
		}
	}
	return true
}

func sortedAllocations(in []Allocation) []Allocation {
	out := make([]Allocation, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool {
		if out[i].PeriodID != out[j].PeriodID {
			return out[i].PeriodID < out[j].PeriodID
		}
		if out[i].ApartmentID != out[j].ApartmentID {
			return out[i].ApartmentID < out[j].ApartmentID
		}
		return out[i].WishID < out[j].WishID
	})
	return out
}

func sortedUnmet(in []UnmetWish) []UnmetWish {
	out := make([]UnmetWish, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool {
		if out[i].WishID != out[j].WishID {
			return out[i].WishID < out[j].WishID
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}
