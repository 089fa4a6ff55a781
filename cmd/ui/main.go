package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"sync"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"go.uber.org/zap"

	"taskbook/internal/config"
	"taskbook/internal/logging"
	"taskbook/internal/session"
	"taskbook/pkg/task"
)

var theme *material.Theme

type rowButtons struct {
	inProgress widget.Clickable
	completed  widget.Clickable
	cancelled  widget.Clickable
	delete     widget.Clickable
}

type UI struct {
	session *session.Session
	window  *app.Window

	// Form
	titleEditor       widget.Editor
	descriptionEditor widget.Editor
	dueEditor         widget.Editor
	completionEditor  widget.Editor
	locationEditor    widget.Editor
	createBtn         widget.Clickable

	// Sort
	sortMode    task.SortMode
	sortNone    widget.Clickable
	sortDueDate widget.Clickable
	sortStatus  widget.Clickable

	// List
	taskList widget.List
	rows     rowSet

	// Notice
	dismissBtn widget.Clickable

	mu         sync.Mutex
	tasks      []task.Task
	notice     string
	submitting bool
	clearForm  bool
}

func main() {
	path := config.DefaultPath()
	if p := os.Getenv("TASKBOOK_CONFIG"); p != "" {
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s, err := session.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open session", zap.Error(err))
	}

	theme = material.NewTheme()
	theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	theme.Palette.Bg = color.NRGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xFF}
	theme.Palette.Fg = color.NRGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	theme.Palette.ContrastBg = color.NRGBA{R: 0x30, G: 0x60, B: 0xA0, A: 0xFF}
	theme.Palette.ContrastFg = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	ui := &UI{session: s, sortMode: s.SortMode, tasks: s.Store.Snapshot()}
	ui.taskList.Axis = layout.Vertical
	for _, ed := range []*widget.Editor{&ui.titleEditor, &ui.dueEditor, &ui.completionEditor, &ui.locationEditor} {
		ed.SingleLine = true
	}

	go func() {
		w := new(app.Window)
		w.Option(app.Title("taskbook"))
		w.Option(app.Size(unit.Dp(float32(cfg.UI.WindowWidth)), unit.Dp(float32(cfg.UI.WindowHeight))))
		ui.window = w

		updates := s.Store.Subscribe()
		go ui.follow(updates)
		if err := s.Watch(ctx); err != nil {
			logger.Warn("watch task file", zap.Error(err))
		}

		err := ui.run(w)
		cancel()
		s.Store.Unsubscribe(updates)
		if cerr := s.Close(); cerr != nil {
			logger.Warn("close session", zap.Error(cerr))
		}
		_ = logger.Sync()
		if err != nil {
			logger.Fatal("window", zap.Error(err))
		}
		os.Exit(0)
	}()
	app.Main()
}

// follow keeps the rendered collection in step with the store.
func (ui *UI) follow(updates <-chan []task.Task) {
	for snap := range updates {
		ui.mu.Lock()
		ui.tasks = snap
		ui.mu.Unlock()
		ui.invalidate()
	}
}

func (ui *UI) setNotice(err error) {
	ui.mu.Lock()
	ui.notice = noticeFor(err)
	ui.mu.Unlock()
	ui.invalidate()
}

func (ui *UI) invalidate() {
	if ui.window != nil {
		ui.window.Invalidate()
	}
}

func (ui *UI) run(w *app.Window) error {
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			ui.handleClicks(gtx)
			ui.layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (ui *UI) handleClicks(gtx layout.Context) {
	if ui.sortNone.Clicked(gtx) {
		ui.sortMode = task.SortNone
	}
	if ui.sortDueDate.Clicked(gtx) {
		ui.sortMode = task.SortByDueDate
	}
	if ui.sortStatus.Clicked(gtx) {
		ui.sortMode = task.SortByStatus
	}
	if ui.dismissBtn.Clicked(gtx) {
		ui.mu.Lock()
		ui.notice = ""
		ui.mu.Unlock()
	}
	if ui.createBtn.Clicked(gtx) {
		ui.submit()
	}
	ui.mu.Lock()
	cleared := ui.clearForm
	ui.clearForm = false
	ui.mu.Unlock()
	if cleared {
		for _, ed := range ui.editors() {
			ed.SetText("")
		}
	}

	// Buttons belong to the rows drawn last frame; the snapshot may have
	// changed since.
	for i := range ui.rows.buttons {
		id, ok := ui.rows.id(i)
		if !ok {
			break
		}
		row := &ui.rows.buttons[i]
		if row.inProgress.Clicked(gtx) {
			go ui.setStatus(id, task.StatusInProgress)
		}
		if row.completed.Clicked(gtx) {
			go ui.setStatus(id, task.StatusCompleted)
		}
		if row.cancelled.Clicked(gtx) {
			go ui.setStatus(id, task.StatusCancelled)
		}
		if row.delete.Clicked(gtx) {
			go ui.deleteTask(id)
		}
	}
}

func (ui *UI) editors() []*widget.Editor {
	return []*widget.Editor{&ui.titleEditor, &ui.descriptionEditor, &ui.dueEditor, &ui.completionEditor, &ui.locationEditor}
}

// submit reads the form and creates the task off the window goroutine.
// A second click while a create is running is ignored.
func (ui *UI) submit() {
	ui.mu.Lock()
	if ui.submitting {
		ui.mu.Unlock()
		return
	}
	ui.submitting = true
	ui.mu.Unlock()

	vals := formValues{
		Title:          ui.titleEditor.Text(),
		Description:    ui.descriptionEditor.Text(),
		DueDate:        ui.dueEditor.Text(),
		CompletionDate: ui.completionEditor.Text(),
		Location:       ui.locationEditor.Text(),
	}
	go ui.create(vals)
}

// create stores the task and asks the next frame to clear the form when
// the task was accepted. A failed save still keeps the task.
func (ui *UI) create(vals formValues) {
	defer func() {
		ui.mu.Lock()
		ui.submitting = false
		ui.mu.Unlock()
	}()

	in, err := vals.input()
	if err == nil {
		_, err = ui.session.Create(context.Background(), in)
	}
	ui.setNotice(err)
	if err != nil && !session.IsPersistFailure(err) {
		return
	}
	ui.mu.Lock()
	ui.clearForm = true
	ui.mu.Unlock()
	ui.invalidate()
}

func (ui *UI) setStatus(id string, s task.Status) {
	ui.setNotice(ui.session.SetStatus(context.Background(), id, s))
}

func (ui *UI) deleteTask(id string) {
	ui.setNotice(ui.session.Delete(context.Background(), id))
}

// visible is the latest snapshot in the selected order.
func (ui *UI) visible() []task.Task {
	ui.mu.Lock()
	tasks := ui.tasks
	ui.mu.Unlock()
	return task.Order(tasks, ui.sortMode)
}
