package ui

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/chroma-browser/internal/browser"
	"github.com/ytget/chroma-browser/internal/config"
)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	controller   *browser.Controller
	settings     *config.Settings
	localization *Localization
	logger       *zap.Logger

	// connection row
	hostLabel  *widget.Label
	portLabel  *widget.Label
	hostEntry  *widget.Entry
	portEntry  *widget.Entry
	connectBtn *widget.Button

	// browsing panes
	collectionsHeader *widget.Label
	chunksHeader      *widget.Label
	collections       *CollectionList
	chunks            *ChunkTree
	tabs              *container.AppTabs
	metadataTab       *container.TabItem
	contentTab        *container.TabItem
	metadataPane      *TextPane
	contentPane       *TextPane

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
	notificationSeq       atomic.Uint64

	// last rendered generations, touched on the UI goroutine only
	lastGeneration       uint64
	lastChunksGeneration uint64

	// one remote action at a time
	busy  atomic.Bool
	tasks sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRootUI creates the main window content and subscribes to controller
// updates
func NewRootUI(window fyne.Window, controller *browser.Controller, settings *config.Settings,
	localization *Localization, logger *zap.Logger) *RootUI {
	if logger == nil {
		logger = zap.NewNop()
	}
	localization.SetLanguage(settings.Language)

	ctx, cancel := context.WithCancel(context.Background())
	ui := &RootUI{
		window:       window,
		controller:   controller,
		settings:     settings,
		localization: localization,
		logger:       logger.Named("ui"),
		ctx:          ctx,
		cancel:       cancel,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()
	controller.SetUpdateCallback(func(snap browser.Snapshot) {
		fyne.Do(func() {
			ui.render(snap)
		})
	})
	ui.render(controller.Snapshot())
	return ui
}

// Close cancels running remote actions and waits up to CloseTimeout for
// their workers to return
func (ui *RootUI) Close() {
	ui.cancel()

	done := make(chan struct{})
	go func() {
		ui.tasks.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(CloseTimeout):
		ui.logger.Warn("Remote actions still running on close", zap.Duration("waited", CloseTimeout))
	}
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.hostLabel = widget.NewLabel(ui.localization.GetText(KeyHost))
	ui.portLabel = widget.NewLabel(ui.localization.GetText(KeyPort))

	ui.hostEntry = widget.NewEntry()
	ui.hostEntry.SetText(ui.settings.Host)
	ui.hostEntry.OnSubmitted = func(string) {
		ui.onConnect()
	}

	ui.portEntry = widget.NewEntry()
	ui.portEntry.SetText(strconv.Itoa(ui.settings.Port))
	ui.portEntry.Validator = func(text string) error {
		_, err := config.ParsePort(text)
		return err
	}
	ui.portEntry.OnSubmitted = func(string) {
		ui.onConnect()
	}

	ui.connectBtn = widget.NewButton(ui.localization.GetText(KeyConnect), ui.onConnect)
	ui.connectBtn.Importance = widget.HighImportance

	connectionRow := container.NewBorder(nil, nil,
		ui.hostLabel,
		container.NewHBox(ui.portLabel, container.NewGridWrap(fyne.NewSize(PortEntryWidth, ui.portEntry.MinSize().Height), ui.portEntry), ui.connectBtn),
		ui.hostEntry,
	)

	// Notification panel under the connection row (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationLabel.Truncation = fyne.TextTruncateEllipsis
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewBorder(nil, nil, ui.notificationSpinner, nil, ui.notificationLabel)
	ui.notificationContainer.Hide()

	top := container.NewVBox(connectionRow, ui.notificationContainer)

	ui.collections = NewCollectionList(ui.localization)
	ui.collections.SetHandler(collectionEvents{ui: ui})
	ui.collectionsHeader = widget.NewLabelWithStyle(ui.localization.GetText(KeyCollections), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	ui.chunks = NewChunkTree(ui.localization)
	ui.chunks.SetHandler(chunkEvents{ui: ui})
	ui.chunksHeader = widget.NewLabelWithStyle(ui.localization.GetText(KeyChunks), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	ui.metadataPane = NewTextPane(ui.localization)
	ui.contentPane = NewTextPane(ui.localization)
	ui.metadataTab = container.NewTabItem(ui.localization.GetText(KeyMetadata), ui.metadataPane)
	ui.contentTab = container.NewTabItem(ui.localization.GetText(KeyContent), ui.contentPane)
	ui.tabs = container.NewAppTabs(ui.metadataTab, ui.contentTab)

	chunksSplit := container.NewHSplit(
		container.NewBorder(ui.chunksHeader, nil, nil, nil, ui.chunks.Container()),
		ui.tabs,
	)
	chunksSplit.Offset = ChunksSplitOffset

	mainSplit := container.NewHSplit(
		container.NewBorder(ui.collectionsHeader, nil, nil, nil, ui.collections.Container()),
		chunksSplit,
	)
	mainSplit.Offset = CollectionsSplitOffset

	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, mainSplit))
	ui.logger.Debug("UI setup completed")
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	refreshItem := fyne.NewMenuItem(ui.localization.GetText(KeyRefresh), ui.onRefresh)
	refreshItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierShortcutDefault}

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), refreshItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.updateTitle(ui.controller.Snapshot())

	ui.hostLabel.SetText(ui.localization.GetText(KeyHost))
	ui.portLabel.SetText(ui.localization.GetText(KeyPort))
	ui.connectBtn.SetText(ui.localization.GetText(KeyConnect))
	ui.collectionsHeader.SetText(ui.localization.GetText(KeyCollections))
	ui.chunksHeader.SetText(ui.localization.GetText(KeyChunks))
	ui.metadataTab.Text = ui.localization.GetText(KeyMetadata)
	ui.contentTab.Text = ui.localization.GetText(KeyContent)
	ui.tabs.Refresh()
	ui.chunks.tree.Refresh()
}

// render applies a controller snapshot to the widgets. Must run on the UI
// goroutine. Lists older than the ones on screen are ignored, since snapshots
// from the worker and the UI goroutine may arrive out of order.
func (ui *RootUI) render(snap browser.Snapshot) {
	if snap.Generation < ui.lastGeneration || snap.ChunksGeneration < ui.lastChunksGeneration {
		return
	}
	if snap.Generation > ui.lastGeneration {
		ui.lastGeneration = snap.Generation
		ui.collections.SetNames(snap.Collections)
	}
	if snap.ChunksGeneration > ui.lastChunksGeneration {
		ui.lastChunksGeneration = snap.ChunksGeneration
		ui.chunks.SetChunks(snap.Chunks)
	}

	if chunk, ok := snap.SelectedChunk(); ok {
		ui.metadataPane.SetContent(chunk.MetadataJSON())
		ui.contentPane.SetContent(chunk.Content)
	} else {
		ui.metadataPane.SetContent("")
		ui.contentPane.SetContent("")
	}

	ui.updateTitle(snap)
}

func (ui *RootUI) updateTitle(snap browser.Snapshot) {
	title := ui.localization.GetText(KeyAppTitle)
	if snap.State.IsConnected() {
		title += " - " + snap.Connection.String()
	}
	if name := snap.Collection().Name; name != "" {
		title += " / " + name
	}
	ui.window.SetTitle(title)
}

// runTask runs task on a worker goroutine unless another task is running.
// status is shown with a spinner while the task runs.
func (ui *RootUI) runTask(status string, task func(ctx context.Context)) bool {
	if !ui.busy.CompareAndSwap(false, true) {
		ui.showNotification(ui.localization.GetText(KeyBusy), false)
		return false
	}

	ui.showNotification(status, true)
	ui.setControlsEnabled(false)

	ui.tasks.Add(1)
	go func() {
		defer ui.tasks.Done()
		defer ui.setControlsEnabled(true)
		defer ui.busy.Store(false)
		task(ui.ctx)
	}()
	return true
}

func (ui *RootUI) setControlsEnabled(enabled bool) {
	fyne.Do(func() {
		if enabled {
			ui.connectBtn.Enable()
		} else {
			ui.connectBtn.Disable()
		}
	})
}

// onConnect handles the connect button
func (ui *RootUI) onConnect() {
	host := ui.hostEntry.Text
	port, err := config.ParsePort(ui.portEntry.Text)
	if err != nil {
		ui.reportError(KeyInvalidPort, err)
		return
	}

	address := fmt.Sprintf("%s:%d", host, port)
	ui.runTask(fmt.Sprintf(ui.localization.GetText(KeyConnecting), address), func(ctx context.Context) {
		if err := ui.controller.Connect(ctx, host, port); err != nil {
			ui.reportError(KeyConnectFailed, err)
			return
		}
		snap := ui.controller.Snapshot()
		ui.showTimedNotification(fmt.Sprintf(ui.localization.GetText(KeyConnected), snap.Connection, len(snap.Collections)))
	})
}

// onRefresh re-lists the collections of the current server
func (ui *RootUI) onRefresh() {
	if ui.controller.Snapshot().Connection.IsZero() {
		ui.onConnect()
		return
	}

	ui.runTask(ui.localization.GetText(KeyRefresh), func(ctx context.Context) {
		if err := ui.controller.Refresh(ctx); err != nil {
			ui.reportError(KeyConnectFailed, err)
			return
		}
		snap := ui.controller.Snapshot()
		ui.showTimedNotification(fmt.Sprintf(ui.localization.GetText(KeyConnected), snap.Connection, len(snap.Collections)))
	})
}

// loadCollection loads the chunks of the collection at index
func (ui *RootUI) loadCollection(index int) {
	name, ok := ui.collectionName(index)
	if !ok {
		return
	}

	started := ui.runTask(fmt.Sprintf(ui.localization.GetText(KeyLoadingChunks), name), func(ctx context.Context) {
		if err := ui.controller.SelectCollection(ctx, name); err != nil {
			ui.reportError(KeyLoadFailed, err)
			return
		}
		ui.showTimedNotification(fmt.Sprintf(ui.localization.GetText(KeyChunksLoaded), name, ui.controller.Snapshot().Chunks.Len()))
	})
	if !started {
		ui.collections.list.Unselect(index)
	}
}

// deleteCollection deletes the collection at index after confirmation
func (ui *RootUI) deleteCollection(index int) {
	name, ok := ui.collectionName(index)
	if !ok {
		return
	}

	ui.runTask(fmt.Sprintf(ui.localization.GetText(KeyDeleting), name), func(ctx context.Context) {
		deleted, err := ui.controller.DeleteCollection(ctx, name)
		if err != nil {
			ui.reportError(KeyDeleteFailed, err)
			return
		}
		if !deleted {
			ui.hideNotification()
			return
		}
		ui.showTimedNotification(fmt.Sprintf(ui.localization.GetText(KeyDeleted), name))
	})
}

// showCollectionInfo reads and shows the info of the collection at index
func (ui *RootUI) showCollectionInfo(index int) {
	name, ok := ui.collectionName(index)
	if !ok {
		return
	}

	ui.runTask(fmt.Sprintf(ui.localization.GetText(KeyLoadingInfo), name), func(ctx context.Context) {
		info, err := ui.controller.CollectionInfo(ctx, name)
		if err != nil {
			ui.reportError(KeyInfoFailed, err)
			return
		}
		ui.hideNotification()
		fyne.Do(func() {
			ShowInfoDialog(info, ui.window, ui.localization)
		})
	})
}

func (ui *RootUI) collectionName(index int) (string, bool) {
	names := ui.collections.Names()
	if index < 0 || index >= len(names) {
		return "", false
	}
	return names[index], true
}

// reportError logs err and shows it verbatim
func (ui *RootUI) reportError(titleKey string, err error) {
	title := ui.localization.GetText(titleKey)
	ui.logger.Error(title, zap.Error(err))
	ui.showNotification(IconError+" "+title+": "+err.Error(), false)
	fyne.Do(func() {
		dialog.ShowError(err, ui.window)
	})
}

// showNotification displays a message in the notification panel under the
// connection row. When spinning is true, a spinner indicates background activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	ui.notificationSeq.Add(1)
	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
		} else {
			ui.notificationSpinner.Hide()
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})
}

// showTimedNotification shows message and hides it after NotificationAutoHide
// unless another notification replaced it
func (ui *RootUI) showTimedNotification(message string) {
	ui.showNotification(message, false)
	seq := ui.notificationSeq.Load()
	time.AfterFunc(NotificationAutoHide, func() {
		if ui.notificationSeq.Load() == seq {
			ui.hideNotification()
		}
	})
}

// hideNotification hides the notification panel
func (ui *RootUI) hideNotification() {
	fyne.Do(func() {
		ui.notificationSpinner.Hide()
		ui.notificationContainer.Hide()
	})
}

// collectionEvents routes collection list events
type collectionEvents struct {
	ui *RootUI
}

func (h collectionEvents) OnSelect(index int) {
	h.ui.loadCollection(index)
}

func (h collectionEvents) OnContextAction(index int, action ContextAction) {
	switch action {
	case ActionDelete:
		h.ui.deleteCollection(index)
	case ActionInfo:
		h.ui.showCollectionInfo(index)
	}
}

// chunkEvents routes chunk tree events
type chunkEvents struct {
	ui *RootUI
}

func (h chunkEvents) OnSelect(index int) {
	h.ui.controller.SelectChunk(index)
}

func (h chunkEvents) OnContextAction(int, ContextAction) {}
