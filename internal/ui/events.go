package ui

// ContextAction names an entry of a widget's context menu
type ContextAction string

const (
	ActionDelete    ContextAction = "delete"
	ActionInfo      ContextAction = "info"
	ActionCopy      ContextAction = "copy"
	ActionSelectAll ContextAction = "select_all"
)

// labelKey returns the localization key of the action's menu label
func (a ContextAction) labelKey() string {
	switch a {
	case ActionDelete:
		return KeyDelete
	case ActionInfo:
		return KeyInfo
	case ActionCopy:
		return KeyCopy
	case ActionSelectAll:
		return KeySelectAll
	default:
		return string(a)
	}
}

// EventHandler receives the user events of one widget.
// index is the item the event refers to, or -1 for widgets without items.
type EventHandler interface {
	OnSelect(index int)
	OnContextAction(index int, action ContextAction)
}
