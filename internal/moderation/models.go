// Package moderation — консоль модерации в Telegram: парольный вход,
// пошаговые действия и уведомления о жалобах.
package moderation

// actionKind — вид модераторского действия.
type actionKind int

const (
	actionBanStory actionKind = iota + 1
	actionWarnUser
	actionRequestEdit
)

func (k actionKind) String() string {
	switch k {
	case actionBanStory:
		return "ban_story"
	case actionWarnUser:
		return "warn_user"
	case actionRequestEdit:
		return "request_edit"
	default:
		return "unknown"
	}
}

// stage — этап незавершённого действия.
type stage int

const (
	stageAwaitingTarget stage = iota + 1
	stageAwaitingReason
)

// pendingAction — начатое, но не завершённое действие модератора.
// На чат одновременно висит не больше одного такого действия.
type pendingAction struct {
	kind     actionKind
	stage    stage
	targetID int64
}
