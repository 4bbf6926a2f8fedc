package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// collectionActions are offered by the collection context menu
var collectionActions = []ContextAction{ActionInfo, ActionDelete}

// CollectionList shows the collection names of the connected server
type CollectionList struct {
	localization *Localization
	handler      EventHandler

	names []string

	list      *widget.List
	container *fyne.Container
}

// NewCollectionList creates an empty collection list
func NewCollectionList(localization *Localization) *CollectionList {
	cl := &CollectionList{localization: localization}
	cl.createUI()
	return cl
}

func (cl *CollectionList) createUI() {
	cl.list = widget.NewList(
		func() int {
			return len(cl.names)
		},
		func() fyne.CanvasObject {
			return newCollectionRow(cl)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if row, ok := obj.(*collectionRow); ok && id < len(cl.names) {
				row.update(id, cl.names[id])
			}
		},
	)
	cl.list.OnSelected = func(id widget.ListItemID) {
		if cl.handler != nil {
			cl.handler.OnSelect(id)
		}
	}

	cl.container = container.NewStack(cl.list)
}

// SetHandler sets the receiver of selection and context menu events
func (cl *CollectionList) SetHandler(handler EventHandler) {
	cl.handler = handler
}

// SetNames replaces the displayed names and clears the selection
func (cl *CollectionList) SetNames(names []string) {
	cl.names = append([]string(nil), names...)
	cl.list.UnselectAll()
	cl.list.Refresh()
}

// Names returns the displayed names
func (cl *CollectionList) Names() []string {
	return cl.names
}

// Container returns the list's canvas object
func (cl *CollectionList) Container() *fyne.Container {
	return cl.container
}

// collectionRow is a list row that opens the context menu on secondary tap.
// Primary taps fall through to the list, which handles selection.
type collectionRow struct {
	widget.BaseWidget

	owner *CollectionList
	index int
	label *widget.Label
}

var _ fyne.SecondaryTappable = (*collectionRow)(nil)

func newCollectionRow(owner *CollectionList) *collectionRow {
	row := &collectionRow{
		owner: owner,
		index: -1,
		label: widget.NewLabel(""),
	}
	row.label.Truncation = fyne.TextTruncateEllipsis
	row.ExtendBaseWidget(row)
	return row
}

func (r *collectionRow) update(index int, name string) {
	r.index = index
	r.label.SetText(IconCollection + " " + name)
}

// TappedSecondary opens the Info / Delete menu for this row
func (r *collectionRow) TappedSecondary(event *fyne.PointEvent) {
	if r.index < 0 {
		return
	}
	showContextMenu(r, event.AbsolutePosition, r.owner.localization, r.index, collectionActions, r.owner.handler)
}

// CreateRenderer creates the widget renderer
func (r *collectionRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(r.label)
}
