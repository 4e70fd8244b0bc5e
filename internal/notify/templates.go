package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("notify").
		Funcs(template.FuncMap{"capitalize": capitalize}).
		ParseFS(templateFS, "templates/*.html"),
)

func capitalize(t Text) string {
	s := string(t)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func orgTemplate(kind Kind) string          { return string(kind) + "_org.html" }
func confirmationTemplate(kind Kind) string { return string(kind) + "_confirmation.html" }
