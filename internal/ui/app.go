package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"DoodleBoard/internal/export"
	"DoodleBoard/internal/raster"
	"DoodleBoard/internal/source"
	"DoodleBoard/internal/state"
)

// AppID identifies the application to fyne; preferences are stored under it.
const AppID = "io.doodleboard.app"

// Options configures RunApp.
type Options struct {
	// Image is where the line art comes from.
	Image source.Source
	// OnCommit receives a freshly encoded PNG of the page after every
	// completed change. Used for the live share.
	OnCommit func(png []byte)
	// ShareLink is shown in the status bar when non-empty.
	ShareLink string
}

// scheduler runs tasks on the fyne event goroutine after the current event
// handler returns.
var scheduler = state.SchedulerFunc(func(task func()) {
	go fyne.Do(task)
})

// RunApp opens the coloring window and blocks until it is closed.
func RunApp(opts Options) {
	myApp := app.NewWithID(AppID)
	myWindow := myApp.NewWindow("DoodleBoard")
	myWindow.Resize(fyne.NewSize(1024, 900))

	session := state.NewSession(scheduler)
	if err := session.SetTool(LoadTool(myApp.Preferences())); err != nil {
		log.Printf("[UI] saved tool rejected: %v", err)
	}

	status := widget.NewLabel("Loading picture…")
	setStatus := func(text string) { status.SetText(text) }

	board := NewBoard(session)
	toolbar := NewToolbar(session)
	toolbar.OnToolChanged = func(t raster.Tool) { SaveTool(myApp.Preferences(), t) }
	toolbar.OnClear = session.Clear
	toolbar.OnError = func(err error) { setStatus(err.Error()) }
	session.OnError = func(err error) { setStatus(err.Error()) }

	sink := saveDialogSink{window: myWindow, status: setStatus}
	toolbar.OnSavePNG = func() {
		img, err := session.Export()
		if err != nil {
			setStatus(exportMessage(err))
			return
		}
		if _, err := export.Save(sink, img, time.Now()); err != nil {
			setStatus(err.Error())
		}
	}
	toolbar.OnSavePDF = func() {
		img, err := session.Export()
		if err != nil {
			setStatus(exportMessage(err))
			return
		}
		if _, err := export.SavePDF(sink, img, time.Now()); err != nil {
			setStatus(err.Error())
		}
	}

	if opts.OnCommit != nil {
		session.OnCommit = func() { publish(session, opts.OnCommit) }
	}

	ctx, cancel := context.WithCancel(context.Background())
	source.LoadAsync(ctx, opts.Image, raster.Size, raster.Size, func(res source.Result) {
		fyne.Do(func() { installReference(session, res, setStatus, opts.ShareLink) })
	})

	myWindow.SetOnClosed(func() {
		cancel()
		if err := session.Close(); err != nil {
			log.Printf("[UI] closing session: %v", err)
		}
	})

	content := container.NewBorder(toolbar.Object(), status, nil, nil, board)
	myWindow.SetContent(content)
	myWindow.ShowAndRun()
}

func installReference(s *state.Session, res source.Result, setStatus func(string), shareLink string) {
	if res.Err != nil {
		s.FailReference(res.Err)
		setStatus(fmt.Sprintf("Could not load the picture: %v", res.Err))
		return
	}
	if err := s.SetReference(res.Buffer); err != nil {
		setStatus(fmt.Sprintf("Could not use the picture: %v", err))
		return
	}
	if shareLink != "" {
		setStatus("Ready. Watch live at " + shareLink)
		return
	}
	setStatus("Ready")
}

// publish encodes the page for the share. Before the line art arrives only
// the drawing layer is sent.
func publish(s *state.Session, deliver func([]byte)) {
	img, err := s.Export()
	if err != nil {
		img = s.Drawing().Image()
	}
	data, err := export.PNG(img)
	if err != nil {
		log.Printf("[UI] share snapshot: %v", err)
		return
	}
	deliver(data)
}

func exportMessage(err error) string {
	switch {
	case errors.Is(err, state.ErrReferenceLoading):
		return "The picture is still loading, try again in a moment"
	case errors.Is(err, state.ErrReferenceFailed):
		return "Nothing to save: the picture failed to load"
	}
	return err.Error()
}

// saveDialogSink delivers exports through the host's save dialog.
type saveDialogSink struct {
	window fyne.Window
	status func(string)
}

func (d saveDialogSink) Deliver(name string, data []byte) error {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			d.status(fmt.Sprintf("Save failed: %v", err))
			return
		}
		if writer == nil {
			return // cancelled
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Printf("[UI] closing %s: %v", writer.URI(), err)
			}
		}()
		if _, err := writer.Write(data); err != nil {
			log.Printf("[UI] writing %s: %v", writer.URI(), err)
			d.status("Error writing file")
			return
		}
		d.status("Saved " + writer.URI().Name())
		log.Printf("[UI] saved %d bytes to %s", len(data), writer.URI())
	}, d.window)
	save.SetFileName(name)
	save.Show()
	return nil
}
