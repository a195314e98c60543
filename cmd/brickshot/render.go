package main

import (
	"fmt"
	"io"
	"strings"

	"brickshot/internal/board"
	ds "brickshot/internal/domain/shotlist"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true)
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7A89"))
	stylePinned = lipgloss.NewStyle().Bold(true).Underline(true)

	statusStyles = map[ds.Status]lipgloss.Style{
		ds.StatusDefault:  lipgloss.NewStyle(),
		ds.StatusUnsure:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E67E22")).Italic(true),
		ds.StatusWIP:      lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F")),
		ds.StatusAnimated: lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71")),
	}
)

func statusLabel(st ds.Status) string {
	style, ok := statusStyles[st]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Render(fmt.Sprintf("%-10s", st))
}

func codeLabel(r board.ShotRow) string {
	code := fmt.Sprintf("%-8s", r.Code)
	if r.LockedNumber != nil {
		return stylePinned.Render(code)
	}
	return code
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func renderBoard(w io.Writer, b *board.Board) {
	title := fmt.Sprintf("Scene %d", b.Scene.Number)
	if b.Scene.Description != "" {
		title += "  " + oneLine(b.Scene.Description)
	}
	fmt.Fprintln(w, styleTitle.Render(title))
	if len(b.Shots) == 0 {
		fmt.Fprintln(w, styleMuted.Render("  no shots"))
		return
	}
	for _, r := range b.Shots {
		renderRow(w, r)
	}
}

func renderRow(w io.Writer, r board.ShotRow) {
	fmt.Fprintf(w, "  %s %s %s  %s\n", codeLabel(r), statusLabel(r.Status), styleMuted.Render(r.ID), oneLine(r.Description))
}
