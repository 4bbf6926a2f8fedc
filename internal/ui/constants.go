package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconCollection = "🗂"
	IconError      = "❌"
)

// Layout sizing
const (
	WindowWidth  float32 = 1100
	WindowHeight float32 = 700

	PortEntryWidth float32 = 80

	// split offsets: collections | (chunks | panes)
	CollectionsSplitOffset = 0.22
	ChunksSplitOffset      = 0.25

	InfoDialogWidth  float32 = 480
	InfoDialogHeight float32 = 360
)

// Notification behavior
const (
	NotificationAutoHide = 5 * time.Second

	// CloseTimeout bounds how long Close waits for running workers
	CloseTimeout = 2 * time.Second
)
