package schedule

import (
	"fmt"
	"strings"
	"time"

	"jiaban/internal/core"
)

// Typed operation results. Message() renders the user-facing text; the
// core stays free of presentation strings.

// UpdateResult confirms a schedule update.
type UpdateResult struct {
	Date    time.Time
	Workday bool
}

func (r UpdateResult) Message() string {
	status := "休息日"
	if r.Workday {
		status = "工作日"
	}
	return fmt.Sprintf("成功将日期 %s 的状态更新为%s。", r.Date.Format(core.DateLayout), status)
}

// ClockOutResult is either a refusal (rest day, nothing written) or the
// full clock-out report.
type ClockOutResult struct {
	Refused bool
	Date    time.Time

	OffTime    core.Clock
	Daily      float64
	MonthTotal float64
	Projection core.Projection
}

func (r ClockOutResult) Message() string {
	if r.Refused {
		return fmt.Sprintf("根据你的计划，今天 (%s) 不是工作日，无需记录下班。", r.Date.Format(core.DateLayout))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "成功记录下班时间：%s。\n", r.OffTime)
	fmt.Fprintf(&b, "当日加班：%.2f 小时。\n", r.Daily)
	fmt.Fprintf(&b, "本月累计加班：%.2f 小时。\n\n", r.MonthTotal)
	b.WriteString("【智能建议】\n")
	b.WriteString(r.advice())
	return b.String()
}

// advice renders the post-clock-out projection: today is spent, the
// remaining budget is spread over future workdays only.
func (r ClockOutResult) advice() string {
	p := r.Projection
	switch p.Kind {
	case core.ProjectionExhausted:
		return fmt.Sprintf("警告！你本月的加班时长已达 %.2f 小时，已超出%.0f小时的额度！接下来请务必准时下班！",
			p.Total, core.MonthlyBudgetHours)
	case core.ProjectionSuggest:
		return fmt.Sprintf("根据计划，你本月还有 %d 个工作日。为了不超过%.0f小时总加班，你接下来平均需要加班 %.2f 小时，建议在 %s 左右下班。",
			p.Workdays, core.MonthlyBudgetHours, p.AvgPerDay, p.Suggested.HHMM())
	default:
		return "本月已无剩余工作日，请好好休息！"
	}
}

// SuggestionKind tags the daily suggestion outcome.
type SuggestionKind int

const (
	SuggestWeekend    SuggestionKind = iota // weekend, store untouched
	SuggestNotPlanned                       // no row for today
	SuggestRestDay                          // row exists, flagged rest day
	SuggestProjection                       // workday, projection computed
)

// SuggestionResult is the read-only daily advisory.
type SuggestionResult struct {
	Kind       SuggestionKind
	Projection core.Projection
}

func (r SuggestionResult) Message() string {
	switch r.Kind {
	case SuggestWeekend:
		return "今天是周末，好好休息吧！"
	case SuggestNotPlanned:
		return "今天的计划尚未设定，请先规划日程。"
	case SuggestRestDay:
		return "根据计划，今天不是工作日，好好休息！"
	}
	// Today is still pending, so it was counted into the division.
	switch r.Projection.Kind {
	case core.ProjectionExhausted:
		return fmt.Sprintf("加班已满，请%s准时下班！", core.StandardOff.HHMM())
	case core.ProjectionSuggest:
		return fmt.Sprintf("若要均分剩余加班，今天建议在 %s 下班。", r.Projection.Suggested.HHMM())
	default:
		return fmt.Sprintf("请%s准时下班，享受生活！", core.StandardOff.HHMM())
	}
}

// PopulateResult reports how many default rows a month fill created.
type PopulateResult struct {
	Year    int
	Month   time.Month
	Created int
}

func (r PopulateResult) Message() string {
	if r.Created == 0 {
		return fmt.Sprintf("%d年%d月的排班已存在，无需填充。", r.Year, int(r.Month))
	}
	return fmt.Sprintf("成功为 %d年%d月 填充了 %d 天的默认排班！您现在可以进行个性化调整。", r.Year, int(r.Month), r.Created)
}
