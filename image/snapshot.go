// Package image saves and restores runtime state: the obarray with its
// symbol IDs and the value bindings. Snapshots are CBOR encoded and can be
// written to a file or kept in a SQLite store.
package image

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/tliron/commonlog"

	"github.com/shawwn/ylang/runtime"
	"github.com/shawwn/ylang/symbol"
)

var log = commonlog.GetLogger("ylang.image")

// Version is the snapshot format version written by Capture.
const Version = 1

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	// each value level is a Node map plus its Items array, under the
	// Snapshot, Bindings and Binding wrappers
	dm, err := cbor.DecOptions{MaxNestedLevels: 2*maxDepth + 16}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR dec mode: %v", err))
	}
	cborDecMode = dm
}

// Snapshot is the saved state of a runtime.
type Snapshot struct {
	Version  int       `cbor:"1,keyasint"`
	Symbols  []Row     `cbor:"2,keyasint"`
	Bindings []Binding `cbor:"3,keyasint,omitempty"`
}

// Row is one non-sentinel obarray entry.
type Row struct {
	Name string `cbor:"1,keyasint"`
	ID   uint32 `cbor:"2,keyasint"`
}

// Binding is one value binding, keyed by symbol ID.
type Binding struct {
	Symbol uint32 `cbor:"1,keyasint"`
	Value  Node   `cbor:"2,keyasint"`
}

// Capture records the obarray of rt in insertion order and every value
// binding.
func Capture(rt *runtime.Runtime) (*Snapshot, error) {
	t := rt.Table()
	snap := &Snapshot{Version: Version}
	for _, r := range t.Export() {
		snap.Symbols = append(snap.Symbols, Row{Name: r.Name, ID: uint32(r.ID)})
	}

	reg := rt.Registry()
	for _, s := range reg.Bindings() {
		v, _ := reg.LookupValue(s)
		n, err := Encode(t, v)
		if err != nil {
			return nil, fmt.Errorf("image: binding %s: %w", s, err)
		}
		snap.Bindings = append(snap.Bindings, Binding{Symbol: uint32(s.ID()), Value: n})
	}
	return snap, nil
}

// Rows returns the obarray rows in the form runtime.Config.Rows expects.
func (s *Snapshot) Rows() []symbol.Row {
	rows := make([]symbol.Row, len(s.Symbols))
	for i, r := range s.Symbols {
		rows[i] = symbol.Row{Name: r.Name, ID: symbol.ID(r.ID)}
	}
	return rows
}

// Restore builds a runtime from cfg with the snapshot's obarray, then
// rebinds the saved values over the configured ones.
func (s *Snapshot) Restore(cfg *runtime.Config) (*runtime.Runtime, error) {
	if s.Version != Version {
		return nil, fmt.Errorf("image: unsupported snapshot version %d", s.Version)
	}
	if cfg == nil {
		cfg = runtime.DefaultConfig()
	}
	c := *cfg
	c.Rows = s.Rows()

	rt, err := runtime.New(&c)
	if err != nil {
		return nil, err
	}
	t := rt.Table()
	for _, b := range s.Bindings {
		sym, ok := t.Symbol(symbol.ID(b.Symbol))
		if !ok {
			rt.Close()
			return nil, fmt.Errorf("image: binding for unknown symbol id %d", b.Symbol)
		}
		v, err := Decode(t, b.Value)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.Registry().SetValue(sym, v)
	}
	log.Infof("restored %d symbols, %d bindings", len(s.Symbols), len(s.Bindings))
	return rt, nil
}

// Marshal serializes a snapshot to canonical CBOR.
func Marshal(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal deserializes a snapshot from CBOR bytes.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cborDecMode.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("image: unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// WriteFile saves a snapshot to path.
func WriteFile(path string, s *Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("image: write %s: %w", path, err)
	}
	log.Infof("wrote %s (%d bytes)", path, len(data))
	return nil
}

// ReadFile loads a snapshot from path.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("image: read %s: %w", path, err)
	}
	return Unmarshal(data)
}
