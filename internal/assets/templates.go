package assets

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const wordListTemplateName = "word-list.md.go.tmpl"

//go:embed templates/word-list.md.go.tmpl
var fallbackWordListTemplate string

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

// ParseWordListTemplate parses the markdown template of an exported word list.
// The embedded template is used when templatePath is empty or cannot be parsed.
func ParseWordListTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, wordListTemplateName, fallbackWordListTemplate)
}

func parseTemplateWithFallback(templatePath string, fallbackName string, fallbackTemplate string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
		"cell": func(v any) string {
			return cellEscaper.Replace(fmt.Sprint(v))
		},
	}

	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			fileName := filepath.Base(templatePath)
			tmpl, err := template.New(fileName).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(fallbackName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}

	return tmpl, nil
}
