package signature

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Версия и алгоритм, которые пишутся в манифест.
const (
	ManifestVersion = 1
	AlgorithmSHA1   = "sha1"
)

const schemaURL = "manifest.schema.json"

//go:embed manifest.schema.json
var manifestSchema []byte

// ErrInvalidManifest возвращается для манифеста, не прошедшего разбор или проверку схемы.
var ErrInvalidManifest = errors.New("некорректный манифест подписей")

// Manifest - YAML-представление реестра.
//
//	version: 1
//	algorithm: sha1
//	files:
//	  - path: Content/Paks/base.pak
//	    hash: 2fd4e1c67a2d28fced849ee1bb76e7391b93eb12
type Manifest struct {
	Version   int     `yaml:"version"`
	Algorithm string  `yaml:"algorithm"`
	Files     []Entry `yaml:"files"`
}

// compileSchema компилирует встроенную JSON Schema манифеста.
func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(manifestSchema))
	if err != nil {
		return nil, fmt.Errorf("разбор схемы манифеста: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("регистрация схемы манифеста: %w", err)
	}
	return compiler.Compile(schemaURL)
}

// ParseManifest читает YAML-манифест и проверяет его по схеме.
func ParseManifest(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: чтение: %w", ErrInvalidManifest, err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return &manifest, nil
}

// validate приводит YAML-документ к JSON-модели и проверяет его схемой.
func validate(raw any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	// yaml.v3 возвращает целые числа как int, схема ожидает JSON-числа.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return nil
}

// WriteManifest кодирует манифест в YAML.
func WriteManifest(w io.Writer, manifest *Manifest) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(manifest); err != nil {
		return fmt.Errorf("кодирование манифеста: %w", err)
	}
	return encoder.Close()
}

// Load заполняет реестр записями манифеста.
func (r *Registry) Load(manifest *Manifest) error {
	for _, entry := range manifest.Files {
		if err := r.Add(entry.Path, entry.Hash); err != nil {
			return err
		}
	}
	return nil
}

// Manifest возвращает манифест с текущими записями реестра.
func (r *Registry) Manifest() *Manifest {
	return &Manifest{
		Version:   ManifestVersion,
		Algorithm: AlgorithmSHA1,
		Files:     r.Entries(),
	}
}
