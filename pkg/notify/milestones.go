package notify

import (
	"fmt"

	"github.com/borgmon/schedule-bell/pkg/models"
)

// Milestone is a fixed daily workday checkpoint
type Milestone struct {
	Time    string // HH:MM
	Message string
}

// WorkdayMilestones builds the four workday checkpoints from the settings, in
// work start, lunch start, lunch end, work end order. Milestones without a
// configured time are dropped. Milestones sharing a time collapse into one entry
// that keeps the earlier position and carries the later message.
func WorkdayMilestones(s models.NotificationSettings) []Milestone {
	name := s.DisplayName()
	candidates := []Milestone{
		{s.WorkStartTime, fmt.Sprintf("Chào buổi sáng %s. Đã đến giờ làm việc rồi, bắt đầu một ngày thật năng suất nhé!", name)},
		{s.LunchStartTime, fmt.Sprintf("%s ơi, đã đến giờ nghỉ trưa. Tạm gác công việc lại và đi ăn thôi! Đừng quên chăm sóc sức khoẻ nhé.", name)},
		{s.LunchEndTime, fmt.Sprintf("Đến giờ làm việc buổi chiều rồi %s. Cùng tiếp tục nào!", name)},
		{s.WorkEndTime, fmt.Sprintf("Đã hết giờ làm việc. Chúc %s có một buổi tối vui vẻ!", name)},
	}

	milestones := make([]Milestone, 0, len(candidates))
	index := make(map[string]int)
	for _, m := range candidates {
		if m.Time == "" {
			continue
		}
		if i, ok := index[m.Time]; ok {
			milestones[i].Message = m.Message
			continue
		}
		index[m.Time] = len(milestones)
		milestones = append(milestones, m)
	}
	return milestones
}
