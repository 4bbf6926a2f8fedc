package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/ytget/chroma-browser/internal/browser"
)

// DialogConfirmer asks for delete confirmation with a modal dialog.
// It must be called off the UI goroutine; it blocks until the user answers.
type DialogConfirmer struct {
	window       fyne.Window
	localization *Localization
}

var _ browser.Confirmer = (*DialogConfirmer)(nil)

// NewDialogConfirmer creates a confirmer showing its dialog on window
func NewDialogConfirmer(window fyne.Window, localization *Localization) *DialogConfirmer {
	return &DialogConfirmer{window: window, localization: localization}
}

// ConfirmDelete shows a yes/no dialog and waits for the answer. Closing the
// dialog or cancelling ctx counts as no.
func (c *DialogConfirmer) ConfirmDelete(ctx context.Context, collection string) bool {
	answer := make(chan bool, 1)

	fyne.Do(func() {
		dialog.ShowConfirm(
			c.localization.GetText(KeyConfirmDelete),
			fmt.Sprintf(c.localization.GetText(KeyConfirmDeleteMsg), collection),
			func(ok bool) {
				answer <- ok
			},
			c.window,
		)
	})

	select {
	case ok := <-answer:
		return ok
	case <-ctx.Done():
		return false
	}
}
