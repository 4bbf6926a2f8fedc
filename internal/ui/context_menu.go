package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// showContextMenu pops up a menu of actions at pos, routing the chosen action
// for index to handler
func showContextMenu(obj fyne.CanvasObject, pos fyne.Position, localization *Localization,
	index int, actions []ContextAction, handler EventHandler) {
	if handler == nil || len(actions) == 0 {
		return
	}
	c := fyne.CurrentApp().Driver().CanvasForObject(obj)
	if c == nil {
		return
	}

	items := make([]*fyne.MenuItem, 0, len(actions))
	for _, action := range actions {
		action := action
		items = append(items, fyne.NewMenuItem(localization.GetText(action.labelKey()), func() {
			handler.OnContextAction(index, action)
		}))
	}

	widget.ShowPopUpMenuAtPosition(fyne.NewMenu("", items...), c, pos)
}
