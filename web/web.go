// Package web serves the embedded single-page UI.
package web

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed index.html
var indexHTML string

type pageData struct {
	Version string
}

// Handler returns the UI page handler with the build version baked into
// the footer. The template renders once; requests serve the cached bytes.
func Handler(version string) (http.HandlerFunc, error) {
	tmpl, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pageData{Version: version}); err != nil {
		return nil, fmt.Errorf("render index template: %w", err)
	}
	page := buf.Bytes()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}, nil
}
