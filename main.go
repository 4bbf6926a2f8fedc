package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/ytget/chroma-browser/internal/browser"
	"github.com/ytget/chroma-browser/internal/chroma"
	"github.com/ytget/chroma-browser/internal/config"
	"github.com/ytget/chroma-browser/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.chroma-browser"
	AppName = "Chroma Browser"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(2)
	}

	logger, err := settings.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting", zap.String("app", AppName), zap.String("version", version))

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme(settings.TextSize))

	myWindow := myApp.NewWindow(AppName)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	localization := ui.NewLocalization()
	dialer := chroma.NewDialer(settings.ClientOptions(logger.Named("chroma")))
	confirmer := ui.NewDialogConfirmer(myWindow, localization)
	controller := browser.NewController(dialer, confirmer, logger.Named("browser"))

	root := ui.NewRootUI(myWindow, controller, settings, localization, logger)

	myWindow.ShowAndRun()
	root.Close()
}
