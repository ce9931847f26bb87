package draw

import "sort"

// ── 引擎输入结构 ──
// 与存储模型解耦：进入引擎前由调用方转换为显式类型化的输入。

// Period 竞争时段
type Period struct {
	ID        string
	SortOrder int
}

// Apartment 抽签标的
type Apartment struct {
	ID string
}

// Wish 用户对某期间的排序申请
// Priority 数值越小越优先；ApartmentIDs 索引 0 为该愿望内最优先的公寓。
type Wish struct {
	ID           string
	UserID       string
	PeriodID     string
	Priority     int
	ApartmentIDs []string
}

// ── 校验问题 ──

const (
	IssueUnknownPeriod    = "unknown_period"    // 愿望引用了不存在的期间
	IssueUnknownApartment = "unknown_apartment" // 愿望引用了不存在的公寓
	IssueEmptyApartments  = "empty_apartments"  // 愿望的公寓列表为空（或全部无效）
	IssueDuplicateWish    = "duplicate_wish"    // 同一用户对同一期间提交了多条愿望
)

// ValidationIssue 单条校验问题
// 索引只收集并上报，不丢弃数据；是否排除或阻断由调用方策略决定。
type ValidationIssue struct {
	WishID  string `json:"wish_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WishIndex 抽签输入索引
// 期间按 sort_order 升序；每期间内愿望按 (priority, wish_id) 升序。
// wish_id 仅用于遍历稳定性，tier 内真正的先后由种子排列决定。
type WishIndex struct {
	periods    []Period
	apartments map[string]struct{}
	byPeriod   map[string][]Wish
	invalid    map[string]struct{} // 无法参与分配的愿望（期间不存在 / 无有效公寓）
	issues     []ValidationIssue
	wishCount  int
}

// BuildIndex 从原始输入构建索引并执行一致性校验
// 校验问题全部收集后一并返回，不会在首个问题处中断。
func BuildIndex(periods []Period, apartments []Apartment, wishes []Wish) *WishIndex {
	idx := &WishIndex{
		periods:    make([]Period, len(periods)),
		apartments: make(map[string]struct{}, len(apartments)),
		byPeriod:   make(map[string][]Wish),
		invalid:    make(map[string]struct{}),
		wishCount:  len(wishes),
	}

	copy(idx.periods, periods)
	sort.Slice(idx.periods, func(i, j int) bool {
		if idx.periods[i].SortOrder != idx.periods[j].SortOrder {
			return idx.periods[i].SortOrder < idx.periods[j].SortOrder
		}
		return idx.periods[i].ID < idx.periods[j].ID
	})

	for _, a := range apartments {
		idx.apartments[a.ID] = struct{}{}
	}
	periodSet := make(map[string]struct{}, len(periods))
	for _, p := range periods {
		periodSet[p.ID] = struct{}{}
	}

	// 逐条校验愿望
	seen := make(map[string][]string) // "userID:periodID" → wishIDs
	for _, w := range wishes {
		if _, ok := periodSet[w.PeriodID]; !ok {
			idx.issues = append(idx.issues, ValidationIssue{
				WishID: w.ID, Code: IssueUnknownPeriod,
				Message: "愿望引用的期间不存在: " + w.PeriodID,
			})
			idx.invalid[w.ID] = struct{}{}
			continue
		}

		validApartments := 0
		for _, aid := range w.ApartmentIDs {
			if _, ok := idx.apartments[aid]; !ok {
				idx.issues = append(idx.issues, ValidationIssue{
					WishID: w.ID, Code: IssueUnknownApartment,
					Message: "愿望引用的公寓不存在: " + aid,
				})
				continue
			}
			validApartments++
		}
		if validApartments == 0 {
			idx.issues = append(idx.issues, ValidationIssue{
				WishID: w.ID, Code: IssueEmptyApartments,
				Message: "愿望没有任何有效的公寓选项",
			})
			idx.invalid[w.ID] = struct{}{}
			continue
		}

		key := w.UserID + ":" + w.PeriodID
		seen[key] = append(seen[key], w.ID)

		idx.byPeriod[w.PeriodID] = append(idx.byPeriod[w.PeriodID], w)
	}

	// 同一 (用户, 期间) 的重复愿望：仅告警，不剔除（与前端仅提示的行为一致）
	for _, ids := range seen {
		if len(ids) < 2 {
			continue
		}
		sort.Strings(ids)
		for _, id := range ids {
			idx.issues = append(idx.issues, ValidationIssue{
				WishID: id, Code: IssueDuplicateWish,
				Message: "同一用户对同一期间提交了多条愿望",
			})
		}
	}

	for pid := range idx.byPeriod {
		ws := idx.byPeriod[pid]
		sort.Slice(ws, func(i, j int) bool {
			if ws[i].Priority != ws[j].Priority {
				return ws[i].Priority < ws[j].Priority
			}
			return ws[i].ID < ws[j].ID
		})
	}

	// 校验问题按 wish_id 排序，保证输出稳定
	sort.Slice(idx.issues, func(i, j int) bool {
		if idx.issues[i].WishID != idx.issues[j].WishID {
			return idx.issues[i].WishID < idx.issues[j].WishID
		}
		return idx.issues[i].Code < idx.issues[j].Code
	})

	return idx
}

// Issues 返回全部校验问题
func (idx *WishIndex) Issues() []ValidationIssue { return idx.issues }

// HasBlockingIssues 是否存在会使愿望无法参与分配的问题
// 重复愿望与个别无效公寓引用不算阻断性问题。
func (idx *WishIndex) HasBlockingIssues() bool { return len(idx.invalid) > 0 }

// InvalidWishes 返回无法参与分配的愿望 ID（升序）
func (idx *WishIndex) InvalidWishes() []string {
	ids := make([]string, 0, len(idx.invalid))
	for id := range idx.invalid {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ApartmentCount 返回公寓总数
func (idx *WishIndex) ApartmentCount() int { return len(idx.apartments) }

// HasApartment 检查公寓是否存在
func (idx *WishIndex) HasApartment(id string) bool {
	_, ok := idx.apartments[id]
	return ok
}

// WishCount 返回输入愿望总数（含无效愿望）
func (idx *WishIndex) WishCount() int { return idx.wishCount }

// PeriodsInOrder 返回按 sort_order 升序的期间列表
func (idx *WishIndex) PeriodsInOrder() []Period { return idx.periods }

// WishesForPeriod 返回某期间内按 (priority, wish_id) 升序的愿望
func (idx *WishIndex) WishesForPeriod(periodID string) []Wish { return idx.byPeriod[periodID] }

// UserPeriods 返回每个用户提交过愿望的期间集合
func (idx *WishIndex) UserPeriods() map[string][]string {
	result := make(map[string]map[string]struct{})
	for pid, ws := range idx.byPeriod {
		for _, w := range ws {
			if result[w.UserID] == nil {
				result[w.UserID] = make(map[string]struct{})
			}
			result[w.UserID][pid] = struct{}{}
		}
	}
	out := make(map[string][]string, len(result))
	for uid, pids := range result {
		list := make([]string, 0, len(pids))
		for pid := range pids {
			list = append(list, pid)
		}
		sort.Strings(list)
		out[uid] = list
	}
	return out
}
