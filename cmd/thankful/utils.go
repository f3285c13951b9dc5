package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/gosuri/uitable"

	"github.com/unowned-ai/thankful/pkg/thanks"
)

const maxPhotoSize = 20 * 1024 * 1024

// formatTimestamp converts a Unix timestamp (float64, seconds since epoch)
// to a human-readable string in RFC3339 format.
func formatTimestamp(timestamp float64) string {
	return formatTime(time.Unix(int64(timestamp), 0))
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func parseEntryID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid entry ID: %w", err)
	}
	return id, nil
}

func readPhotoFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if info.Size() > maxPhotoSize {
		return nil, fmt.Errorf("photo %s is larger than %d bytes", path, maxPhotoSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("photo %s is empty", path)
	}
	return data, nil
}

// swatch renders a colored dot followed by the hex value. Terminals without
// color get the hex value only.
func swatch(c thanks.RGBA) string {
	if color.NoColor {
		return c.Hex()
	}
	r, g, b := c.Color.RGB255()
	return color.RGB(int(r), int(g), int(b)).Sprint("●") + " " + c.Hex()
}

func favoriteMark(e thanks.Entry) string {
	if e.IsFavorite {
		return color.New(color.FgHiYellow).Sprint("★")
	}
	return " "
}

func printEntries(entries []thanks.Entry) {
	if len(entries) == 0 {
		color.New(color.Faint, color.Italic).Println("No entries found.")
		return
	}

	tbl := uitable.New()
	tbl.MaxColWidth = 50
	tbl.Separator = "  "
	tbl.AddRow("", "ID", "DATE", "TITLE", "REASON", "COLOR")
	for _, e := range entries {
		tbl.AddRow(favoriteMark(e), e.ID, e.Date.Format(time.DateOnly), e.Title, e.Reason, swatch(e.Color()))
	}
	fmt.Fprintln(color.Output, tbl)
}

func printEntry(e thanks.Entry) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Wrap = true
	tbl.MaxColWidth = 80
	tbl.AddRow("ID:", e.ID)
	tbl.AddRow("Title:", bold.Sprint(e.Title))
	tbl.AddRow("Reason:", e.Reason)
	tbl.AddRow("Date:", formatTime(e.Date))
	tbl.AddRow("Favorite:", e.IsFavorite)
	tbl.AddRow("Icon:", e.Icon)
	tbl.AddRow("Color:", swatch(e.Color()))
	tbl.AddRow("Photo:", e.HasPhoto)
	tbl.AddRow("Created At:", formatTimestamp(e.CreatedAt))
	tbl.AddRow("Updated At:", formatTimestamp(e.UpdatedAt))
	fmt.Fprintln(color.Output, tbl)
}
