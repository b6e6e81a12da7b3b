package service

import "school-organizer/internal/model"

// AdHocPosition 不在当天课表中的科目统一排在课表之后
const AdHocPosition = 999

// ScheduleSlot 当天的一个科目格子：来自周课表，或当天临时添加
// 只有本包内的两种实现
type ScheduleSlot interface {
	Position() int
	isScheduleSlot()
}

// WeeklyScheduleSlot 来自周课表的格子
type WeeklyScheduleSlot struct {
	Row model.WeeklySchedule
}

func (s WeeklyScheduleSlot) Position() int { return s.Row.Position }
func (WeeklyScheduleSlot) isScheduleSlot()  {}

// AdHocSlot 当天临时添加的科目
type AdHocSlot struct {
	Subject model.Subject
	Pos     int
}

func (s AdHocSlot) Position() int { return s.Pos }
func (AdHocSlot) isScheduleSlot()  {}

// ResolvedSlot 格子及其当天记录
// Subject 为实际显示的科目：有记录时取记录的科目（可能是换科后的科目）
type ResolvedSlot struct {
	Slot    ScheduleSlot
	Subject model.Subject
	Entry   *model.DailyEntry
}

// ResolveSlots 合并某天生效的课表行与当天记录
//
// rows 需已按 position 排序且 Subject 已加载；entries 需按创建顺序排列。
// 课表行优先匹配同科目的记录，其次匹配换科时记下该行科目的记录；
// 未被任何课表行匹配的记录依次追加为临时格子。
func ResolveSlots(rows []model.WeeklySchedule, entries []model.DailyEntry) []ResolvedSlot {
	bySubject := make(map[string]int, len(entries))
	byScheduled := make(map[string]int, len(entries))
	for i := range entries {
		e := &entries[i]
		if _, ok := bySubject[e.SubjectID]; !ok {
			bySubject[e.SubjectID] = i
		}
		if e.ScheduledSubjectID != nil && *e.ScheduledSubjectID != e.SubjectID {
			if _, ok := byScheduled[*e.ScheduledSubjectID]; !ok {
				byScheduled[*e.ScheduledSubjectID] = i
			}
		}
	}

	used := make([]bool, len(entries))
	slots := make([]ResolvedSlot, 0, len(rows)+len(entries))

	for _, row := range rows {
		if row.SubjectID == nil {
			continue
		}
		slot := ResolvedSlot{Slot: WeeklyScheduleSlot{Row: row}}
		if row.Subject != nil {
			slot.Subject = *row.Subject
		} else {
			slot.Subject = model.Subject{SubjectID: *row.SubjectID}
		}

		idx, ok := bySubject[*row.SubjectID]
		if !ok {
			idx, ok = byScheduled[*row.SubjectID]
			// 换科记录只占用一个课表格子
			if ok && used[idx] {
				ok = false
			}
		}
		if ok {
			e := &entries[idx]
			used[idx] = true
			slot.Entry = e
			slot.Subject = entrySubject(e)
		}
		slots = append(slots, slot)
	}

	for i := range entries {
		if used[i] {
			continue
		}
		e := &entries[i]
		subject := entrySubject(e)
		slots = append(slots, ResolvedSlot{
			Slot:    AdHocSlot{Subject: subject, Pos: AdHocPosition},
			Subject: subject,
			Entry:   e,
		})
	}

	return slots
}

func entrySubject(e *model.DailyEntry) model.Subject {
	if e.Subject != nil {
		return *e.Subject
	}
	return model.Subject{SubjectID: e.SubjectID}
}
