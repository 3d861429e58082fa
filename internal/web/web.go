// Package web holds the server-rendered presentation layer: embedded
// templates, static assets, flash messages and list paging.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page template with the view helpers
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates like Templates but panics; templates are compiled into the binary
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// StaticFS stylesheet and other assets served under /static
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// FuncMap helpers available to every template
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"date":          formatDate,
		"dateOpt":       formatOptionalDate,
		"isoDate":       isoDate,
		"isoDateOpt":    isoOptionalDate,
		"dateTime":      func(t time.Time) string { return t.Format("Jan 2, 2006 3:04 PM") },
		"money":         formatMoney,
		"statusDisplay": func(o *model.TravelOrder) dto.StatusDisplay { return service.StatusDisplayFor(o, time.Now()) },
		"actionLabel":   actionLabel,
		"fieldError":    func(f *Flash, field string) string { return f.FieldError(field) },
		"old":           func(f *Flash, field, fallback string) string { return f.OldValue(field, fallback) },
		"hasRole": func(u *model.User, roles ...string) bool {
			return u != nil && (u.IsAdministrator() || u.HasRole(roles...))
		},
		"add":  func(a, b int) int { return a + b },
		"dict": dict,
		"withOld": WithOld,
	}
}

// dict builds a map from alternating key/value arguments for sub-templates
func dict(pairs ...interface{}) (map[string]interface{}, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[k] = pairs[i+1]
	}
	return m, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func isoOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return isoDate(*t)
}

// formatMoney 1234567.5 → "1,234,567.50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

var actionLabels = map[string]string{
	service.TransitionRecommend: "Recommend",
	service.TransitionApprove:   "Approve",
	service.TransitionReject:    "Disapprove",
	service.TransitionCancel:    "Cancel",
}

func actionLabel(action string) string {
	if l, ok := actionLabels[action]; ok {
		return l
	}
	return action
}
