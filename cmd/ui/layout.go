package main

import (
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"taskbook/pkg/task"
)

var (
	colorMuted   = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	colorWarning = color.NRGBA{R: 0xFF, G: 0xA0, B: 0x00, A: 0xFF}
	colorDanger  = color.NRGBA{R: 0xC0, G: 0x30, B: 0x30, A: 0xFF}
)

func statusColor(s task.Status) color.NRGBA {
	switch s {
	case task.StatusNew:
		return colorWarning
	case task.StatusInProgress:
		return color.NRGBA{R: 0x00, G: 0xA0, B: 0xFF, A: 0xFF}
	case task.StatusCompleted:
		return color.NRGBA{R: 0x00, G: 0xC0, B: 0x00, A: 0xFF}
	case task.StatusCancelled:
		return colorDanger
	}
	return colorMuted
}

func (ui *UI) layout(gtx layout.Context) layout.Dimensions {
	tasks := ui.visible()
	ui.rows.reset(tasks)

	return layout.Inset{Top: unit.Dp(16), Right: unit.Dp(16), Bottom: unit.Dp(16), Left: unit.Dp(16)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return material.H5(theme, "Tasks").Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(ui.layoutForm),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(ui.layoutNotice),
			layout.Rigid(ui.layoutSort),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				if len(tasks) == 0 {
					label := material.Body1(theme, "No tasks yet.")
					label.Color = colorMuted
					return label.Layout(gtx)
				}
				return material.List(theme, &ui.taskList).Layout(gtx, len(tasks), func(gtx layout.Context, i int) layout.Dimensions {
					return ui.layoutRow(gtx, tasks[i], &ui.rows.buttons[i])
				})
			}),
		)
	})
}

func field(ed *widget.Editor, hint string) layout.FlexChild {
	return layout.Rigid(func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Bottom: unit.Dp(4)}.Layout(gtx, material.Editor(theme, ed, hint).Layout)
	})
}

func (ui *UI) layoutForm(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		field(&ui.titleEditor, "Title"),
		field(&ui.descriptionEditor, "Description"),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{}.Layout(gtx,
				layout.Flexed(1, material.Editor(theme, &ui.dueEditor, "Due date (YYYY-MM-DD)").Layout),
				layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
				layout.Flexed(1, material.Editor(theme, &ui.completionEditor, "Completion date (YYYY-MM-DD)").Layout),
			)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{}.Layout(gtx,
				layout.Flexed(1, material.Editor(theme, &ui.locationEditor, "Location").Layout),
				layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
				layout.Rigid(material.Button(theme, &ui.createBtn, "Create").Layout),
			)
		}),
	)
}

func (ui *UI) layoutNotice(gtx layout.Context) layout.Dimensions {
	ui.mu.Lock()
	notice := ui.notice
	ui.mu.Unlock()
	if notice == "" {
		return layout.Dimensions{}
	}
	return layout.Inset{Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				label := material.Body2(theme, notice)
				label.Color = colorWarning
				return label.Layout(gtx)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				b := material.Button(theme, &ui.dismissBtn, "Dismiss")
				b.Background = color.NRGBA{A: 0}
				b.Color = theme.Palette.Fg
				return b.Layout(gtx)
			}),
		)
	})
}

func (ui *UI) layoutSort(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(material.Body2(theme, "Sort:").Layout),
		layout.Rigid(sortBtn(theme, &ui.sortNone, "None", ui.sortMode == task.SortNone)),
		layout.Rigid(sortBtn(theme, &ui.sortDueDate, "Due date", ui.sortMode == task.SortByDueDate)),
		layout.Rigid(sortBtn(theme, &ui.sortStatus, "Status", ui.sortMode == task.SortByStatus)),
	)
}

func sortBtn(th *material.Theme, btn *widget.Clickable, label string, active bool) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Left: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			b := material.Button(th, btn, label)
			if active {
				b.Background = th.Palette.ContrastBg
			} else {
				b.Background = color.NRGBA{A: 0}
			}
			b.Color = th.Palette.Fg
			return b.Layout(gtx)
		})
	}
}

func (ui *UI) layoutRow(gtx layout.Context, t task.Task, row *rowButtons) layout.Dimensions {
	return layout.Inset{Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				label := material.Body1(theme, t.Title)
				label.Font.Weight = font.Bold
				return label.Layout(gtx)
			}),
			layout.Rigid(material.Body2(theme, t.Description).Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				label := material.Caption(theme, rowText(t))
				label.Color = statusColor(t.Status)
				return label.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{}.Layout(gtx,
					layout.Rigid(material.Button(theme, &row.inProgress, "In Progress").Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
					layout.Rigid(material.Button(theme, &row.completed, "Completed").Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
					layout.Rigid(material.Button(theme, &row.cancelled, "Cancelled").Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						b := material.Button(theme, &row.delete, "Delete")
						b.Background = colorDanger
						return b.Layout(gtx)
					}),
				)
			}),
		)
	})
}
