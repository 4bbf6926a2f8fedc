package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle         = "app_title"
	KeyFile             = "file"
	KeyRefresh          = "refresh"
	KeyLanguage         = "language"
	KeyHost             = "host"
	KeyPort             = "port"
	KeyConnect          = "connect"
	KeyCollections      = "collections"
	KeyChunks           = "chunks"
	KeyMetadata         = "metadata"
	KeyContent          = "content"
	KeyDelete           = "delete"
	KeyInfo             = "info"
	KeyCopy             = "copy"
	KeySelectAll        = "select_all"
	KeyClose            = "close"
	KeyConnecting       = "connecting"
	KeyConnected        = "connected"
	KeyLoadingChunks    = "loading_chunks"
	KeyChunksLoaded     = "chunks_loaded"
	KeyDeleting         = "deleting"
	KeyDeleted          = "deleted"
	KeyLoadingInfo      = "loading_info"
	KeyBusy             = "busy"
	KeyConfirmDelete    = "confirm_delete"
	KeyConfirmDeleteMsg = "confirm_delete_message"
	KeyConnectFailed    = "connect_failed"
	KeyLoadFailed       = "load_failed"
	KeyDeleteFailed     = "delete_failed"
	KeyInfoFailed       = "info_failed"
	KeyInvalidPort      = "invalid_port"
	KeyCollectionInfo   = "collection_info"
	KeyName             = "name"
	KeyItemCount        = "item_count"
	KeyNoMetadata       = "no_metadata"
	KeyEmbeddingNote    = "embedding_note"
	KeyChunkLabel       = "chunk_label"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown codes are ignored.
func (l *Localization) SetLanguage(lang string) {
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"de": "Deutsch",
		"ru": "Русский",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:         "Chroma Browser",
		KeyFile:             "File",
		KeyRefresh:          "Refresh",
		KeyLanguage:         "Language",
		KeyHost:             "Host",
		KeyPort:             "Port",
		KeyConnect:          "Connect",
		KeyCollections:      "Collections",
		KeyChunks:           "Chunks",
		KeyMetadata:         "Metadata",
		KeyContent:          "Content",
		KeyDelete:           "Delete",
		KeyInfo:             "Info",
		KeyCopy:             "Copy",
		KeySelectAll:        "Select all",
		KeyClose:            "Close",
		KeyConnecting:       "Connecting to %s...",
		KeyConnected:        "Connected to %s, %d collections",
		KeyLoadingChunks:    "Loading %s...",
		KeyChunksLoaded:     "%s: %d chunks",
		KeyDeleting:         "Deleting %s...",
		KeyDeleted:          "Deleted %s",
		KeyLoadingInfo:      "Reading info for %s...",
		KeyBusy:             "Please wait for the current operation to finish",
		KeyConfirmDelete:    "Delete collection",
		KeyConfirmDeleteMsg: "Delete collection %q? This cannot be undone.",
		KeyConnectFailed:    "Connection failed",
		KeyLoadFailed:       "Loading collection failed",
		KeyDeleteFailed:     "Delete failed",
		KeyInfoFailed:       "Reading collection info failed",
		KeyInvalidPort:      "Invalid port",
		KeyCollectionInfo:   "Collection info",
		KeyName:             "Name",
		KeyItemCount:        "Chunks",
		KeyNoMetadata:       "No metadata",
		KeyEmbeddingNote:    "Embedding details are not available over HTTP.",
		KeyChunkLabel:       "Chunk %d",
	}

	l.texts["de"] = map[string]string{
		KeyAppTitle:         "Chroma Browser",
		KeyFile:             "Datei",
		KeyRefresh:          "Aktualisieren",
		KeyLanguage:         "Sprache",
		KeyHost:             "Host",
		KeyPort:             "Port",
		KeyConnect:          "Verbinden",
		KeyCollections:      "Sammlungen",
		KeyChunks:           "Chunks",
		KeyMetadata:         "Metadaten",
		KeyContent:          "Inhalt",
		KeyDelete:           "Löschen",
		KeyInfo:             "Info",
		KeyCopy:             "Kopieren",
		KeySelectAll:        "Alles auswählen",
		KeyClose:            "Schließen",
		KeyConnecting:       "Verbinde mit %s...",
		KeyConnected:        "Verbunden mit %s, %d Sammlungen",
		KeyLoadingChunks:    "Lade %s...",
		KeyChunksLoaded:     "%s: %d Chunks",
		KeyDeleting:         "Lösche %s...",
		KeyDeleted:          "%s gelöscht",
		KeyLoadingInfo:      "Lese Info für %s...",
		KeyBusy:             "Bitte warten, bis der aktuelle Vorgang abgeschlossen ist",
		KeyConfirmDelete:    "Sammlung löschen",
		KeyConfirmDeleteMsg: "Sammlung %q löschen? Dies kann nicht rückgängig gemacht werden.",
		KeyConnectFailed:    "Verbindung fehlgeschlagen",
		KeyLoadFailed:       "Laden der Sammlung fehlgeschlagen",
		KeyDeleteFailed:     "Löschen fehlgeschlagen",
		KeyInfoFailed:       "Lesen der Sammlungsinfo fehlgeschlagen",
		KeyInvalidPort:      "Ungültiger Port",
		KeyCollectionInfo:   "Sammlungsinfo",
		KeyName:             "Name",
		KeyItemCount:        "Chunks",
		KeyNoMetadata:       "Keine Metadaten",
		KeyEmbeddingNote:    "Embedding-Details sind über HTTP nicht verfügbar.",
		KeyChunkLabel:       "Chunk %d",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:         "Chroma Браузер",
		KeyFile:             "Файл",
		KeyRefresh:          "Обновить",
		KeyLanguage:         "Язык",
		KeyHost:             "Хост",
		KeyPort:             "Порт",
		KeyConnect:          "Подключиться",
		KeyCollections:      "Коллекции",
		KeyChunks:           "Фрагменты",
		KeyMetadata:         "Метаданные",
		KeyContent:          "Содержимое",
		KeyDelete:           "Удалить",
		KeyInfo:             "Информация",
		KeyCopy:             "Копировать",
		KeySelectAll:        "Выделить всё",
		KeyClose:            "Закрыть",
		KeyConnecting:       "Подключение к %s...",
		KeyConnected:        "Подключено к %s, коллекций: %d",
		KeyLoadingChunks:    "Загрузка %s...",
		KeyChunksLoaded:     "%s: фрагментов: %d",
		KeyDeleting:         "Удаление %s...",
		KeyDeleted:          "%s удалена",
		KeyLoadingInfo:      "Чтение информации о %s...",
		KeyBusy:             "Дождитесь завершения текущей операции",
		KeyConfirmDelete:    "Удаление коллекции",
		KeyConfirmDeleteMsg: "Удалить коллекцию %q? Это действие необратимо.",
		KeyConnectFailed:    "Ошибка подключения",
		KeyLoadFailed:       "Ошибка загрузки коллекции",
		KeyDeleteFailed:     "Ошибка удаления",
		KeyInfoFailed:       "Ошибка чтения информации о коллекции",
		KeyInvalidPort:      "Неверный порт",
		KeyCollectionInfo:   "Информация о коллекции",
		KeyName:             "Имя",
		KeyItemCount:        "Фрагменты",
		KeyNoMetadata:       "Нет метаданных",
		KeyEmbeddingNote:    "Сведения об эмбеддингах недоступны по HTTP.",
		KeyChunkLabel:       "Фрагмент %d",
	}
}
