package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/internal/dto"
)

const (
	flashCookie = "to_flash"
	// flash survives one redirect; the browser drops it after a minute regardless
	flashMaxAge = 60
	// maxFlashImportErrors keeps the cookie under the 4 KB browser limit
	maxFlashImportErrors = 20
	// maxFlashBytes encoded value budget, leaving room for the cookie attributes
	maxFlashBytes = 3800
)

// Flash one-shot messages carried across a redirect
type Flash struct {
	Success      string                    `json:"s,omitempty"`
	Error        string                    `json:"e,omitempty"`
	Errors       map[string]string         `json:"f,omitempty"`
	Old          map[string]string         `json:"o,omitempty"`
	UserExists   bool                      `json:"u,omitempty"`
	ImportErrors []dto.ImportEmployeeError `json:"i,omitempty"`
}

// FieldError message for one form field
func (f *Flash) FieldError(field string) string {
	if f == nil {
		return ""
	}
	return f.Errors[field]
}

// OldValue previously submitted value of field, or fallback
func (f *Flash) OldValue(field, fallback string) string {
	if f == nil || f.Old == nil {
		return fallback
	}
	if v, ok := f.Old[field]; ok {
		return v
	}
	return fallback
}

// HasErrors reports whether the form came back with field errors
func (f *Flash) HasErrors() bool {
	return f != nil && len(f.Errors) > 0
}

// SetFlash stores f for the next request
func SetFlash(c *gin.Context, f Flash) {
	if len(f.ImportErrors) > maxFlashImportErrors {
		f.ImportErrors = f.ImportErrors[:maxFlashImportErrors]
	}
	value, err := encodeFlash(f)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, value, flashMaxAge, "/", "", false, true)
}

// encodeFlash fits f into maxFlashBytes. Messages and field errors are
// always kept; old input goes first, longest value first, then import rows.
func encodeFlash(f Flash) (string, error) {
	if len(f.Old) > 0 {
		old := make(map[string]string, len(f.Old))
		for k, v := range f.Old {
			old[k] = v
		}
		f.Old = old
	}
	for {
		raw, err := json.Marshal(f)
		if err != nil {
			return "", err
		}
		value := base64.RawURLEncoding.EncodeToString(raw)
		switch {
		case len(value) <= maxFlashBytes:
			return value, nil
		case len(f.Old) > 0:
			delete(f.Old, longestKey(f.Old))
		case len(f.ImportErrors) > 0:
			f.ImportErrors = f.ImportErrors[:len(f.ImportErrors)-1]
		default:
			return value, nil
		}
	}
}

// longestKey key of the longest value; ties go to the smaller key
func longestKey(m map[string]string) string {
	best := ""
	for k, v := range m {
		if best == "" || len(v) > len(m[best]) || (len(v) == len(m[best]) && k < best) {
			best = k
		}
	}
	return best
}

// PopFlash reads and clears the pending flash. Never nil.
func PopFlash(c *gin.Context) *Flash {
	f := &Flash{}
	v, err := c.Cookie(flashCookie)
	if err != nil || v == "" {
		return f
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return f
	}
	_ = json.Unmarshal(raw, f)
	return f
}

// OldInput submitted form values, minus the named fields (passwords)
func OldInput(c *gin.Context, except ...string) map[string]string {
	if err := c.Request.ParseForm(); err != nil {
		return nil
	}
	skip := make(map[string]bool, len(except)+1)
	skip["_method"] = true
	for _, e := range except {
		skip[e] = true
	}
	old := make(map[string]string, len(c.Request.PostForm))
	for k, v := range c.Request.PostForm {
		if skip[k] || len(v) == 0 {
			continue
		}
		old[k] = v[0]
	}
	return old
}
