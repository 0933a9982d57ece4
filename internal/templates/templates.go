// Package templates provides the embedded helper script templates written
// into every work directory at setup time.
package templates

import (
	"bytes"
	"embed"
	"strings"
	"text/template"
)

//go:embed scripts/*.tmpl
var scriptTemplates embed.FS

// ScriptData is the data rendered into a helper script.
type ScriptData struct {
	// Binary is the path of the tool binary the script invokes.
	Binary string
	// Root is the project root the work directory lives under.
	Root string
	// WorkdirID is the "<sdk-version>/<dll-hash>" identifier.
	WorkdirID string
}

// GetMakePatchesCmd returns the Windows batch helper template content.
func GetMakePatchesCmd() (string, error) {
	content, err := scriptTemplates.ReadFile("scripts/make-patches.cmd.tmpl")
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// GetMakePatchesSh returns the POSIX shell helper template content.
func GetMakePatchesSh() (string, error) {
	content, err := scriptTemplates.ReadFile("scripts/make-patches.sh.tmpl")
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// RenderMakePatchesCmd renders the Windows batch helper with CRLF line
// endings, as cmd.exe expects.
func RenderMakePatchesCmd(data ScriptData) (string, error) {
	content, err := GetMakePatchesCmd()
	if err != nil {
		return "", err
	}

	rendered, err := render("make-patches.cmd", content, data)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(rendered, "\n", "\r\n"), nil
}

// RenderMakePatchesSh renders the POSIX shell helper.
func RenderMakePatchesSh(data ScriptData) (string, error) {
	content, err := GetMakePatchesSh()
	if err != nil {
		return "", err
	}
	return render("make-patches.sh", content, data)
}

func render(name, content string, data ScriptData) (string, error) {
	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
