package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/chroma-browser/internal/model"
)

// Chunk preview sizing
const (
	ChunkPreviewRunes = 48
	ChunkPreviewSep   = " · "
)

// rootUID is the tree root; chunk nodes use their index as UID
const rootUID = ""

// ChunkTree shows the chunks of the loaded collection in server order
type ChunkTree struct {
	localization *Localization
	handler      EventHandler

	chunks model.ChunkSet

	tree      *widget.Tree
	container *fyne.Container
}

// NewChunkTree creates an empty chunk tree
func NewChunkTree(localization *Localization) *ChunkTree {
	ct := &ChunkTree{localization: localization}
	ct.createUI()
	return ct
}

func (ct *ChunkTree) createUI() {
	ct.tree = widget.NewTree(
		ct.childUIDs,
		func(uid widget.TreeNodeID) bool {
			return uid == rootUID
		},
		func(bool) fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(uid widget.TreeNodeID, _ bool, obj fyne.CanvasObject) {
			if label, ok := obj.(*widget.Label); ok {
				label.SetText(ct.nodeText(uid))
			}
		},
	)
	ct.tree.OnSelected = func(uid widget.TreeNodeID) {
		index, ok := chunkIndex(uid)
		if ok && ct.handler != nil {
			ct.handler.OnSelect(index)
		}
	}

	ct.container = container.NewStack(ct.tree)
}

func (ct *ChunkTree) childUIDs(uid widget.TreeNodeID) []widget.TreeNodeID {
	if uid != rootUID {
		return nil
	}
	ids := make([]widget.TreeNodeID, ct.chunks.Len())
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	return ids
}

func (ct *ChunkTree) nodeText(uid widget.TreeNodeID) string {
	index, ok := chunkIndex(uid)
	if !ok {
		return ""
	}
	chunk, ok := ct.chunks.At(index)
	if !ok {
		return ""
	}
	label := fmt.Sprintf(ct.localization.GetText(KeyChunkLabel), index+1)
	if preview := chunkPreview(chunk.Content); preview != "" {
		label += ChunkPreviewSep + preview
	}
	return label
}

// SetHandler sets the receiver of selection events
func (ct *ChunkTree) SetHandler(handler EventHandler) {
	ct.handler = handler
}

// SetChunks replaces the displayed chunks. The selection is cleared when the
// chunk set changes.
func (ct *ChunkTree) SetChunks(chunks model.ChunkSet) {
	ct.chunks = chunks
	ct.tree.UnselectAll()
	ct.tree.Refresh()
}

// Len returns the number of displayed chunks
func (ct *ChunkTree) Len() int {
	return ct.chunks.Len()
}

// Container returns the tree's canvas object
func (ct *ChunkTree) Container() *fyne.Container {
	return ct.container
}

func chunkIndex(uid widget.TreeNodeID) (int, bool) {
	if uid == rootUID {
		return 0, false
	}
	index, err := strconv.Atoi(uid)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

// chunkPreview returns the first line of content, shortened to ChunkPreviewRunes
func chunkPreview(content string) string {
	line := strings.TrimSpace(content)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	runes := []rune(line)
	if len(runes) > ChunkPreviewRunes {
		return string(runes[:ChunkPreviewRunes]) + "…"
	}
	return line
}
