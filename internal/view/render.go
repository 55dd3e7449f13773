// Package view renders the seat grid, the counters and booking feedback for
// the terminal.
package view

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/iliyamo/seat-booking/internal/seating"
)

var (
	availableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	bookedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	bookedChip = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214"))
	availableChip = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("2"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("2")).
			Foreground(lipgloss.Color("2")).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

// Grid renders the store as a table with one line per row and the 1-based
// seat numbers in the cells.  Booked seats carry a trailing '*'.
func Grid(s seating.Store) string {
	t := table.NewWriter()
	header := table.Row{"Row"}
	for c := 1; c <= seating.SeatsPerRow; c++ {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for r := 0; r < seating.Rows; r++ {
		row := table.Row{r + 1}
		for _, idx := range seating.Row(r) {
			row = append(row, seatCell(s, idx))
		}
		t.AppendRow(row)
	}
	t.Style().Options.SeparateRows = false
	return t.Render() + "\n" + hintStyle.Render("Legend: green = available, yellow* = booked")
}

func seatCell(s seating.Store, idx int) string {
	label := strconv.Itoa(seating.NumberOf(idx))
	if idx < len(s) && s[idx] == seating.Booked {
		return bookedStyle.Render(label + "*")
	}
	return availableStyle.Render(label)
}

// Counters renders the booked and available totals side by side.
func Counters(booked, available int) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		bookedChip.Render(fmt.Sprintf("Booked Seats = %d", booked)),
		"  ",
		availableChip.Render(fmt.Sprintf("Available Seats = %d", available)),
	)
}

// Success renders a confirmation banner.
func Success(msg string) string { return successStyle.Render(msg) }

// Error renders an error line.
func Error(msg string) string { return errorStyle.Render(msg) }

// Board writes the grid followed by the counters.
func Board(w io.Writer, s seating.Store) error {
	booked, available := s.Counts()
	_, err := fmt.Fprintf(w, "%s\n\n%s\n", Grid(s), Counters(booked, available))
	return err
}
