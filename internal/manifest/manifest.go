// Package manifest fetches, parses, and validates the release manifest
// that drives an install run.
//
// Resolution is strictly ordered: transport, then structural parse
// (JSON Schema + decode), then field validation. A manifest that fails
// any of these never reaches later pipeline stages.
package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/auroralabs/bootstrapper/internal/logging"
	"github.com/auroralabs/bootstrapper/internal/verify"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Manifest describes one installable release.
type Manifest struct {
	Version         string        `json:"version"`
	ReleaseZipURL   string        `json:"release_zip_url"`
	SHA256          string        `json:"sha256"`
	Files           []FileEntry   `json:"files"`
	Prerequisites   Prerequisites `json:"prerequisites"`
	SignatureURL    string        `json:"signature_url,omitempty"`
	LicenseCheckURL string        `json:"license_check_url,omitempty"`
}

// FileEntry names a relative path that must exist inside the extracted
// release archive.
type FileEntry struct {
	Name string `json:"name"`
}

// Prerequisites are advisory environment conditions; they are checked
// and logged but never block an install.
type Prerequisites struct {
	WindowsVersionMin string    `json:"windows_version_min,omitempty"`
	VCRedist          *VCRedist `json:"vc_redist,omitempty"`
}

// VCRedist describes a runtime redistributable the release may need.
type VCRedist struct {
	Required bool   `json:"required"`
	URL      string `json:"url"`
}

// ParseError reports malformed manifest content: invalid JSON or a
// document that violates the manifest schema.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse manifest from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a structurally well-formed but semantically
// incomplete manifest. Field identifies the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid manifest: %s: %s", e.Field, e.Reason)
}

// Getter is the transport dependency: a blocking GET returning the full
// response body.
type Getter interface {
	Bytes(url string) ([]byte, error)
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse embedded manifest schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("manifest.schema.json", doc); err != nil {
			schemaErr = fmt.Errorf("register manifest schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("manifest.schema.json")
	})
	return schema, schemaErr
}

// Resolve fetches the manifest from url, checks it against the embedded
// schema, decodes it, and validates required fields. The returned
// Manifest is safe to hand to later pipeline stages.
func Resolve(client Getter, url string) (*Manifest, error) {
	logger := logging.GetLogger("manifest")
	logger.Info().Str("url", url).Msg("fetching manifest")

	body, err := client.Bytes(url)
	if err != nil {
		return nil, err
	}

	m, err := Parse(body)
	if err != nil {
		if _, ok := err.(*ValidationError); ok {
			return nil, err
		}
		return nil, &ParseError{URL: url, Err: err}
	}

	logger.Info().Str("version", m.Version).Msg("manifest validated")
	return m, nil
}

// Parse decodes and validates manifest bytes. Exposed separately from
// Resolve so embedded or file-based manifests share the same checks.
func Parse(data []byte) (*Manifest, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the semantic completeness of the manifest. Each
// required field produces its own identifiable failure.
func (m *Manifest) Validate() error {
	if m.Version == "" {
		return &ValidationError{Field: "version", Reason: "empty"}
	}
	if m.ReleaseZipURL == "" {
		return &ValidationError{Field: "release_zip_url", Reason: "empty"}
	}
	if m.SHA256 == "" {
		return &ValidationError{Field: "sha256", Reason: "empty"}
	}
	if !verify.IsHexDigest(m.SHA256, verify.SHA256HexLength) {
		return &ValidationError{Field: "sha256", Reason: "not a hex-encoded sha256 digest"}
	}
	if len(m.Files) == 0 {
		return &ValidationError{Field: "files", Reason: "empty"}
	}
	for i, f := range m.Files {
		if f.Name == "" {
			return &ValidationError{Field: fmt.Sprintf("files[%d].name", i), Reason: "empty"}
		}
	}
	return nil
}
