package domain

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed usage.md
var usageTmpl string

// HelpData holds data for rendering the usage guide.
type HelpData struct {
	DefaultPriority Priority
	BackupFile      string
	Priorities      []Priority
	Filters         []string
	Sorts           []string
	Backends        []string
}

// NewHelpData returns HelpData listing every valid option.
func NewHelpData(backupFile string) HelpData {
	filters := make([]string, 0, len(Filters()))
	for _, f := range Filters() {
		filters = append(filters, f.String())
	}
	sorts := make([]string, 0, len(SortModes()))
	for _, m := range SortModes() {
		sorts = append(sorts, m.String())
	}
	if backupFile == "" {
		backupFile = DefaultBackupFile
	}
	return HelpData{
		DefaultPriority: DefaultPriority,
		BackupFile:      backupFile,
		Priorities:      Priorities(),
		Filters:         filters,
		Sorts:           sorts,
		Backends:        []string{BackendFile, BackendSQLite, BackendRedis, BackendGit},
	}
}

// RenderUsage renders the usage guide.
func RenderUsage(data HelpData) (string, error) {
	return renderTemplate(usageTmpl, data)
}

func renderTemplate(tmplStr string, data any) (string, error) {
	tmpl, err := template.New("help").Parse(tmplStr)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
