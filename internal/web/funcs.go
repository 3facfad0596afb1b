package web

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"fyyur/internal/forms"
	"fyyur/internal/models"
)

const (
	layoutFull   = "Monday January, 2, 2006 at 3:04PM"
	layoutMedium = "Mon 01, 02, 2006 3:04PM"
)

// FormatDateTime renders t in the server's local time. "full" and "medium"
// are named formats; anything else is used as a Go layout.
func FormatDateTime(t time.Time, format string) string {
	layout := format
	switch format {
	case "full":
		layout = layoutFull
	case "medium", "":
		layout = layoutMedium
	}
	return t.Local().Format(layout)
}

// entryView is a ShowEntry plus the address of its counterpart.
type entryView struct {
	models.ShowEntry
	Link string
}

func entries(prefix string, list []models.ShowEntry) []entryView {
	out := make([]entryView, 0, len(list))
	for _, e := range list {
		out = append(out, entryView{ShowEntry: e, Link: fmt.Sprintf("%s/%d", prefix, e.OtherID)})
	}
	return out
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"datetime": FormatDateTime,
		"join":     func(items []string, sep string) string { return strings.Join(items, sep) },
		"id":       func(id int64) string { return strconv.FormatInt(id, 10) },
		"states":   func() []string { return forms.States },
		"genres":   func() []string { return forms.Genres },
		"artistEntries": func(list []models.ShowEntry) []entryView {
			return entries("/artists", list)
		},
		"venueEntries": func(list []models.ShowEntry) []entryView {
			return entries("/venues", list)
		},
	}
}
