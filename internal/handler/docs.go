package handler

import (
	_ "embed"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openapiDocument []byte

// validateOpenAPIDocument fails fast at startup on a corrupt document
// rather than serving broken docs.
func validateOpenAPIDocument() error {
	var doc struct {
		OpenAPI string `yaml:"openapi"`
		Info    struct {
			Title string `yaml:"title"`
		} `yaml:"info"`
	}
	if err := yaml.Unmarshal(openapiDocument, &doc); err != nil {
		return fmt.Errorf("parse openapi document: %w", err)
	}
	if doc.OpenAPI == "" || doc.Info.Title == "" {
		return fmt.Errorf("openapi document missing version or title")
	}
	return nil
}

func serveOpenAPIDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openapiDocument)
}
