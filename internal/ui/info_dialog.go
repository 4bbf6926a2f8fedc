package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/chroma-browser/internal/model"
)

// InfoDialog shows summary statistics of one collection
type InfoDialog struct {
	info         model.CollectionInfo
	window       fyne.Window
	localization *Localization
	dialog       dialog.Dialog

	// UI components
	nameLabel     *widget.Label
	countLabel    *widget.Label
	metadataPane  *TextPane
	embeddingNote *widget.Label
}

// NewInfoDialog creates the dialog for info
func NewInfoDialog(info model.CollectionInfo, window fyne.Window, localization *Localization) *InfoDialog {
	d := &InfoDialog{
		info:         info,
		window:       window,
		localization: localization,
	}

	d.createUI()
	return d
}

// ShowInfoDialog creates and shows the dialog for info
func ShowInfoDialog(info model.CollectionInfo, window fyne.Window, localization *Localization) *InfoDialog {
	d := NewInfoDialog(info, window, localization)
	d.Show()
	return d
}

// Show displays the dialog
func (d *InfoDialog) Show() {
	d.dialog.Show()
}

// createUI creates the dialog UI
func (d *InfoDialog) createUI() {
	d.nameLabel = widget.NewLabel(d.info.Name)
	d.nameLabel.Wrapping = fyne.TextWrapBreak
	d.countLabel = widget.NewLabel(strconv.Itoa(d.info.ItemCount))

	form := widget.NewForm(
		widget.NewFormItem(d.localization.GetText(KeyName), d.nameLabel),
		widget.NewFormItem(d.localization.GetText(KeyItemCount), d.countLabel),
	)

	var metadata fyne.CanvasObject
	if d.info.HasMetadata() {
		d.metadataPane = NewTextPane(d.localization)
		d.metadataPane.SetContent(d.info.MetadataJSON())
		metadata = d.metadataPane
	} else {
		metadata = widget.NewLabel(d.localization.GetText(KeyNoMetadata))
	}

	d.embeddingNote = widget.NewLabel(d.localization.GetText(KeyEmbeddingNote))
	d.embeddingNote.Importance = widget.LowImportance

	content := container.NewBorder(
		container.NewVBox(form, widget.NewLabel(d.localization.GetText(KeyMetadata))),
		d.embeddingNote,
		nil,
		nil,
		metadata,
	)

	d.dialog = dialog.NewCustom(
		d.localization.GetText(KeyCollectionInfo),
		d.localization.GetText(KeyClose),
		content,
		d.window,
	)
	d.dialog.Resize(fyne.NewSize(InfoDialogWidth, InfoDialogHeight))
}
