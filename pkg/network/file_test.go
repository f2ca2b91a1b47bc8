package network

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gterrors "github.com/matzehuels/gridtrace/pkg/errors"
	"github.com/matzehuels/gridtrace/pkg/observability"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"net.json", FormatJSON, false},
		{"dir/net.TOML", FormatTOML, false},
		{"net.yaml", FormatYAML, false},
		{"net.yml", FormatYAML, false},
		{"net.xml", "", true},
		{"net", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.True(t, gterrors.Is(err, gterrors.ErrCodeInvalidFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			n := feeder(t)
			cable, _ := n.Equipment("cable")
			cable.Name = "Main cable"
			cable.InService = false
			cable.Meta["length_m"] = "120"
			_, err := n.AddEquipment("spare", "breaker", 2)
			require.NoError(t, err)
			require.NoError(t, n.Connect("spare", 2, "n4"))

			data, err := Marshal(n, format)
			require.NoError(t, err)

			got, err := Decode(bytes.NewReader(data), format)
			require.NoError(t, err)
			assert.Equal(t, FromNetwork(n), FromNetwork(got))

			c, ok := got.Equipment("cable")
			require.True(t, ok)
			assert.Equal(t, "Main cable", c.Label())
			assert.False(t, c.InService)
			assert.True(t, c.NormallyInService)

			sw, _ := got.Equipment("sw1")
			assert.True(t, sw.NormalOpen)

			spare, _ := got.Equipment("spare")
			assert.Nil(t, spare.Terminal(1).Node())
			assert.Equal(t, "n4", spare.Terminal(2).Node().ID())
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := `
equipment:
  - id: src
    kind: source
    terminals: [n1]
  - id: cb1
    name: Feeder breaker
    kind: breaker
    terminals: [n1, n2]
    open: true
    meta:
      rating_a: 630
  - id: load
    terminals: [n2]
    normally_in_service: false
`
	n, err := Decode(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 3, n.Len())

	cb1, _ := n.Equipment("cb1")
	assert.Equal(t, "Feeder breaker", cb1.Name)
	assert.True(t, cb1.CurrentOpen)
	assert.False(t, cb1.NormalOpen)
	assert.Equal(t, 630, cb1.Meta["rating_a"])

	load, _ := n.Equipment("load")
	assert.False(t, load.NormallyInService)
	assert.True(t, load.InService)
}

func TestDecodeTOML(t *testing.T) {
	doc := `
[[equipment]]
id = "src"
kind = "source"
terminals = ["n1"]

[[equipment]]
id = "sw1"
kind = "switch"
terminals = ["n1", ""]
normally_open = true
`
	n, err := Decode(strings.NewReader(doc), FormatTOML)
	require.NoError(t, err)

	sw, _ := n.Equipment("sw1")
	assert.True(t, sw.NormalOpen)
	assert.Len(t, sw.Terminals(), 2)
	assert.Nil(t, sw.Terminal(2).Node())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
		code   gterrors.Code
		is     error
	}{
		{"malformed json", `{"equipment": [`, FormatJSON, gterrors.ErrCodeInvalidFormat, nil},
		{"unknown field", `{"equipment": [{"id": "a", "colour": "red"}]}`, FormatJSON, gterrors.ErrCodeInvalidFormat, nil},
		{"duplicate id", `{"equipment": [{"id": "a"}, {"id": "a"}]}`, FormatJSON, gterrors.ErrCodeInvalidInput, ErrDuplicateEquipmentID},
		{"bad node id", `{"equipment": [{"id": "a", "terminals": [" n1"]}]}`, FormatJSON, gterrors.ErrCodeInvalidInput, ErrInvalidEquipmentID},
		{"bad toml", `[[equipment]`, FormatTOML, gterrors.ErrCodeInvalidFormat, nil},
		{"unknown toml key", "[[equipment]]\nid = \"sw1\"\nnormaly_open = true\n", FormatTOML, gterrors.ErrCodeInvalidFormat, nil},
		{"unknown yaml key", "equipment:\n  - id: sw1\n    normaly_open: true\n", FormatYAML, gterrors.ErrCodeInvalidFormat, nil},
		{"unknown format", `{}`, Format("xml"), gterrors.ErrCodeInvalidFormat, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), tt.format)
			require.Error(t, err)
			assert.True(t, gterrors.Is(err, tt.code), "got %v", err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestDecodeEmptyYAML(t *testing.T) {
	n, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 0, n.Len())
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	n := feeder(t)

	path := filepath.Join(dir, "feeder.yaml")
	require.NoError(t, WriteFile(n, path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, FromNetwork(n), FromNetwork(got))

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.True(t, gterrors.Is(err, gterrors.ErrCodeFileNotFound))
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Error(t, WriteFile(n, filepath.Join(dir, "feeder.txt")))
}

type recordingHooks struct {
	observability.NoopNetworkHooks
	starts    int
	equipment int
	err       error
}

func (h *recordingHooks) OnLoadStart(context.Context, string) { h.starts++ }

func (h *recordingHooks) OnLoadComplete(_ context.Context, _ string, equipment int, _ time.Duration, err error) {
	h.equipment = equipment
	h.err = err
}

func TestReadFileHooks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.json")
	require.NoError(t, WriteFile(feeder(t), path))

	h := &recordingHooks{}
	observability.SetNetworkHooks(h)
	defer observability.Reset()

	_, err := ReadFileContext(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, h.starts)
	assert.Equal(t, 5, h.equipment)
	assert.NoError(t, h.err)

	_, err = ReadFileContext(t.Context(), filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Equal(t, 2, h.starts)
	assert.Equal(t, 0, h.equipment)
	assert.Error(t, h.err)
}
