package ontology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ontoview/pkg/errors"
)

// Format identifies the encoding of a tree file.
type Format string

// Supported tree encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension. Anything that is
// not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// =============================================================================
// Wire Types
// =============================================================================

// Tree is the serialized form of a registry, matching the ontology tree API.
type Tree struct {
	Root       string              `json:"root" yaml:"root" validate:"required"`
	Nodes      map[string]TreeNode `json:"nodes" yaml:"nodes" validate:"required,dive"`
	Truncated  bool                `json:"truncated" yaml:"truncated"`
	TotalNodes int                 `json:"total_nodes" yaml:"total_nodes" validate:"min=0"`
}

// TreeNode is the serialized form of a [Node]. Label and Comment are
// nullable; Depth is a pointer so that a missing depth can be told apart
// from depth 0.
type TreeNode struct {
	URL      string   `json:"url,omitempty" yaml:"url,omitempty"`
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Label    *string  `json:"label" yaml:"label"`
	Comment  *string  `json:"comment" yaml:"comment"`
	Children []string `json:"children" yaml:"children" validate:"omitempty,dive,required"`
	Depth    *int     `json:"depth" yaml:"depth" validate:"required,min=0"`
	HasMore  bool     `json:"has_more" yaml:"has_more"`
}

var validate = validator.New()

// =============================================================================
// Parsing
// =============================================================================

// ParseTree decodes and validates tree data, returning the registry it
// describes. All structural problems are reported as INVALID_TREE or
// INVALID_NODE errors before any registry is built.
func ParseTree(data []byte, format Format) (*Registry, error) {
	var t Tree
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "decode yaml")
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported tree format %q", format)
	}
	return FromTree(t)
}

// ReadTree decodes a tree from r.
func ReadTree(r io.Reader, format Format) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	return ParseTree(data, format)
}

// ReadTreeFile reads a JSON or YAML tree file, choosing the decoder from the
// file extension.
func ReadTreeFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return ParseTree(data, FormatFromPath(path))
}

// FromTree validates a decoded tree and converts it to a registry.
func FromTree(t Tree) (*Registry, error) {
	if err := validate.Struct(t); err != nil {
		return nil, formatValidationError(err)
	}
	if err := errors.ValidateNodeID(t.Root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "invalid root")
	}
	if _, ok := t.Nodes[t.Root]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidTree, "root %q is not present in nodes", t.Root)
	}

	nodes := make(map[string]Node, len(t.Nodes))
	for id, tn := range t.Nodes {
		if err := errors.ValidateNodeID(id); err != nil {
			return nil, err
		}
		if tn.URL != "" && tn.URL != id {
			return nil, errors.New(errors.ErrCodeInvalidNode, "node %q: url %q does not match its key", id, tn.URL)
		}
		for _, child := range tn.Children {
			if err := errors.ValidateNodeID(child); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidNode, err, "node %q: invalid child", id)
			}
		}
		nodes[id] = Node{
			URL:      id,
			Name:     tn.Name,
			Label:    deref(tn.Label),
			Comment:  deref(tn.Comment),
			Children: nonNil(tn.Children),
			Depth:    *tn.Depth,
			HasMore:  tn.HasMore,
		}
	}

	return newRegistry(t.Root, nodes, t.Truncated, t.TotalNodes), nil
}

// formatValidationError converts validator errors to a coded error naming
// the first offending field.
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidTree, err, "validate tree")
	}

	e := validationErrs[0]
	code := errors.ErrCodeInvalidTree
	if strings.Contains(e.Namespace(), ".Nodes[") {
		code = errors.ErrCodeInvalidNode
	}

	switch e.Tag() {
	case "required":
		return errors.New(code, "%s: field is required", e.Namespace())
	case "min":
		return errors.New(code, "%s: must be at least %s", e.Namespace(), e.Param())
	default:
		return errors.New(code, "%s: validation failed (%s)", e.Namespace(), e.Tag())
	}
}

// =============================================================================
// Serialization
// =============================================================================

// Export converts the registry to its serialized form.
func (r *Registry) Export() Tree {
	t := Tree{
		Root:       r.Root(),
		Nodes:      make(map[string]TreeNode, r.Len()),
		Truncated:  r.Truncated(),
		TotalNodes: r.TotalNodes(),
	}
	if r == nil {
		return t
	}
	for id, n := range r.nodes {
		depth := n.Depth
		t.Nodes[id] = TreeNode{
			URL:      id,
			Name:     n.Name,
			Label:    ptr(n.Label),
			Comment:  ptr(n.Comment),
			Children: nonNil(n.Children),
			Depth:    &depth,
			HasMore:  n.HasMore,
		}
	}
	return t
}

// MarshalTree encodes the registry in the given format. JSON output is
// indented; map keys are sorted by both encoders, so output is deterministic.
func MarshalTree(r *Registry, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTree(r, &buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTree encodes the registry to w.
func WriteTree(r *Registry, w io.Writer, format Format) error {
	t := r.Export()
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
}

// WriteTreeFile writes the registry to path, picking the encoding from the
// file extension.
func WriteTreeFile(r *Registry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTree(r, f, FormatFromPath(path))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
