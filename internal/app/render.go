package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/go-nc/nc/internal/dialog"
	"github.com/go-nc/nc/internal/fsadapter"
	"github.com/go-nc/nc/internal/panel"
	"github.com/go-nc/nc/internal/sortview"
	"github.com/go-nc/nc/internal/theme"
)

func hexColor(hex string) tcell.Color {
	if hex == "" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(hex)
}

func paletteStyle(p theme.Palette) (normal, header, selected, marked tcell.Style) {
	normal = tcell.StyleDefault.Foreground(hexColor(p.Text)).Background(hexColor(p.Surface))
	header = tcell.StyleDefault.Foreground(hexColor(p.Accent)).Background(hexColor(p.Panel)).Bold(true)
	selected = tcell.StyleDefault.Foreground(hexColor(p.SelectionText)).Background(hexColor(p.Selection))
	marked = tcell.StyleDefault.Foreground(hexColor(p.Warning)).Background(hexColor(p.Surface)).Bold(true)
	return
}

func putText(s tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		if col-x >= maxWidth {
			break
		}
		s.SetContent(col, y, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
}

// drawApp renders both panels, a status line, and the top dialog (if any).
// The terminal rendering substrate itself is an external collaborator per
// spec.md §1; this is the thin layer that turns PanelState/dialog.Dialog
// into styled cells.
func drawApp(a *App) {
	w, h := a.Screen.Size()
	a.Screen.Clear()
	normal, header, selected, marked := paletteStyle(a.Theme.Palette)

	half := w / 2
	drawPanel(a.Screen, a.Panels.Left, 0, 0, half, h-1, a.Panels.Left == a.Panels.Active(), normal, header, selected, marked)
	drawPanel(a.Screen, a.Panels.Right, half, 0, w-half, h-1, a.Panels.Right == a.Panels.Active(), normal, header, selected, marked)

	drawStatusLine(a, w, h-1, normal)

	if d, ok := a.Dialogs.Top(); ok {
		drawDialogOverlay(a.Screen, d, w, h, normal, header)
	}

	a.Screen.Show()
}

func drawPanel(s tcell.Screen, p *panel.State, x, y, w, h int, active bool, normal, header, selected, marked tcell.Style) {
	headerStyle := header
	if !active {
		headerStyle = headerStyle.Dim(true)
	}
	putText(s, x, y, w, headerStyle, fmt.Sprintf(" %s ", p.Dir))

	entries := p.Entries()
	rows := h - 1
	for row := 0; row < rows; row++ {
		idx := p.ScrollTop + row
		if idx >= len(entries) {
			break
		}
		e := entries[idx]
		style := normal
		if p.Marks.Has(e.Path) {
			style = marked
		}
		if idx == p.Cursor && active {
			style = selected
		}
		putText(s, x, y+1+row, w, style, formatRow(e, p.View))
	}

	if p.Mode == panel.QuickSearching {
		putText(s, x, y+h, w, normal, "/"+p.QuickSearch.Buffer)
	}
}

func formatRow(e fsadapter.Entry, view sortview.View) string {
	name := e.Name
	if e.IsDir {
		name += "/"
	}
	if view == sortview.Brief {
		return name
	}
	return fmt.Sprintf("%-24s %9s %s", name, sortview.FormatSize(e), e.ModTime.Format("2006-01-02 15:04"))
}

func drawStatusLine(a *App, w, y int, style tcell.Style) {
	text := "F1 Help  F2 Menu  F5 Copy  F6 Move  F7 Mkdir  F8 Delete  F10 Quit"
	if len(a.warnings) > 0 {
		text = a.warnings[len(a.warnings)-1]
	}
	putText(a.Screen, 0, y, w, style, text)
}

func drawDialogOverlay(s tcell.Screen, d dialog.Dialog, w, h int, normal, header tcell.Style) {
	boxW, boxH := w*2/3, 5
	x0, y0 := (w-boxW)/2, (h-boxH)/2
	for y := y0; y < y0+boxH; y++ {
		for x := x0; x < x0+boxW; x++ {
			s.SetContent(x, y, ' ', nil, normal)
		}
	}
	var text string
	switch v := d.(type) {
	case *dialog.Confirm:
		text = v.Message
	case *dialog.Conflict:
		text = v.Message + "  " + v.PolicyLabel()
	case *dialog.Input:
		text = v.Prompt + " " + v.Text
	case *dialog.Progress:
		text = v.Line()
	case *dialog.Find:
		text = "Find: " + v.Pattern
	default:
		text = "..."
	}
	putText(s, x0+1, y0+1, boxW-2, header, text)
}
