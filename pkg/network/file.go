package network

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gridtrace/pkg/errors"
	"github.com/matzehuels/gridtrace/pkg/observability"
)

// =============================================================================
// File Format
// =============================================================================

// Format is a network file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension: .json, .toml,
// .yaml or .yml.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported network file extension %q (use .json, .toml or .yaml)", filepath.Ext(path))
}

// File is the serialization format for networks.
//
// Equipment that list the same connectivity node ID in their terminals are
// connected through that node. An empty string leaves a terminal unattached:
//
//	{
//	  "equipment": [
//	    {"id": "src", "kind": "source", "terminals": ["n1"]},
//	    {"id": "cb1", "kind": "breaker", "terminals": ["n1", "n2"], "normally_open": true}
//	  ]
//	}
type File struct {
	Equipment []Record `json:"equipment" toml:"equipment" yaml:"equipment"`
}

// Record is one piece of equipment in a [File]. The in-service flags default
// to true when absent.
type Record struct {
	ID                string         `json:"id" toml:"id" yaml:"id"`
	Name              string         `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Kind              string         `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty"`
	Terminals         []string       `json:"terminals,omitempty" toml:"terminals,omitempty" yaml:"terminals,omitempty"`
	NormallyOpen      bool           `json:"normally_open,omitempty" toml:"normally_open,omitempty" yaml:"normally_open,omitempty"`
	Open              bool           `json:"open,omitempty" toml:"open,omitempty" yaml:"open,omitempty"`
	NormallyInService *bool          `json:"normally_in_service,omitempty" toml:"normally_in_service" yaml:"normally_in_service,omitempty"`
	InService         *bool          `json:"in_service,omitempty" toml:"in_service" yaml:"in_service,omitempty"`
	Meta              map[string]any `json:"meta,omitempty" toml:"meta,omitempty" yaml:"meta,omitempty"`
}

// =============================================================================
// Network ↔ File Conversion
// =============================================================================

// FromNetwork converts a network to its serialization format, keeping the
// network's equipment order.
func FromNetwork(n *Network) File {
	out := File{Equipment: make([]Record, 0, n.Len())}
	for _, e := range n.order {
		r := Record{
			ID:           e.id,
			Name:         e.Name,
			Kind:         e.Kind,
			NormallyOpen: e.NormalOpen,
			Open:         e.CurrentOpen,
			Meta:         copyMeta(e.Meta),
		}
		if !e.NormallyInService {
			r.NormallyInService = boolPtr(false)
		}
		if !e.InService {
			r.InService = boolPtr(false)
		}
		if len(e.terminals) > 0 {
			r.Terminals = make([]string, len(e.terminals))
			for i, t := range e.terminals {
				if t.node != nil {
					r.Terminals[i] = t.node.id
				}
			}
		}
		out.Equipment = append(out.Equipment, r)
	}
	return out
}

// ToNetwork builds a network from its serialization format.
// Errors carry the INVALID_INPUT code and wrap the model sentinel, so both
// errors.Is forms match.
func ToNetwork(f File) (*Network, error) {
	n := New()
	for _, r := range f.Equipment {
		e, err := n.AddEquipment(r.ID, r.Kind, len(r.Terminals))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "equipment %q", r.ID)
		}
		e.Name = r.Name
		e.NormalOpen = r.NormallyOpen
		e.CurrentOpen = r.Open
		if r.NormallyInService != nil {
			e.NormallyInService = *r.NormallyInService
		}
		if r.InService != nil {
			e.InService = *r.InService
		}
		if m := copyMeta(r.Meta); m != nil {
			e.Meta = m
		}
		for i, nodeID := range r.Terminals {
			if nodeID == "" {
				continue
			}
			if err := n.Connect(r.ID, i+1, nodeID); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "equipment %q terminal %d", r.ID, i+1)
			}
		}
	}
	return n, nil
}

// =============================================================================
// Network Serialization API
// =============================================================================

// Marshal encodes a network in the given format.
func Marshal(n *Network, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, n, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes a network to w in the given format.
func Encode(w io.Writer, n *Network, format Format) error {
	f := FromNetwork(n)
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(f)
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(f); err == nil {
			err = enc.Close()
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported network format %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format)
	}
	return nil
}

// Decode reads a network in the given format from r.
func Decode(r io.Reader, format Format) (*Network, error) {
	var f File
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	case FormatTOML:
		var md toml.MetaData
		if md, err = toml.NewDecoder(r).Decode(&f); err == nil {
			err = undecodedKeys(md)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err = dec.Decode(&f); stderrors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported network format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return ToNetwork(f)
}

// undecodedKeys rejects TOML keys that match no record field, as the JSON
// and YAML decoders do.
func undecodedKeys(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return fmt.Errorf("unknown keys %s", strings.Join(keys, ", "))
}

// WriteFile writes a network to path, choosing the format from the
// extension. The file is created with 0644 permissions.
func WriteFile(n *Network, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(n, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a network file, choosing the format from the extension.
func ReadFile(path string) (*Network, error) {
	return ReadFileContext(context.Background(), path)
}

// ReadFileContext is [ReadFile] reporting the load to the registered
// network hooks.
func ReadFileContext(ctx context.Context, path string) (n *Network, err error) {
	hooks := observability.Network()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()
	defer func() {
		count := 0
		if n != nil {
			count = n.Len()
		}
		hooks.OnLoadComplete(ctx, path, count, time.Since(start), err)
	}()

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "network file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, format)
}

func copyMeta(m map[string]any) Metadata {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

func boolPtr(b bool) *bool { return &b }
