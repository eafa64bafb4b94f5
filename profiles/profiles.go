// Package profiles holds named clock trees for common boards and reads
// clock trees from YAML files.
package profiles

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"os"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/libhal-google/libhal-stm32f1/clock"
)

//go:embed profiles.yaml
var rawProfiles []byte

// ErrUnknownProfile is returned by Load for a name that is not built in.
var ErrUnknownProfile = errors.New("unknown clock profile")

// Profile is a named clock tree.
type Profile struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Tree        clock.Tree `yaml:"tree"`
}

var builtin []Profile

// All returns the built-in profiles in file order.
func All() []Profile {
	return slices.Clone(builtin)
}

// Names returns the built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for _, p := range builtin {
		names = append(names, p.Name)
	}
	slices.Sort(names)
	return names
}

// Load returns the built-in profile called name.
func Load(name string) (Profile, error) {
	i := slices.IndexFunc(builtin, func(p Profile) bool { return p.Name == name })
	if i < 0 {
		return Profile{}, errors.Join(ErrUnknownProfile, errors.New(name))
	}
	return builtin[i], nil
}

// Decode reads a profile document: a top-level "profiles" list. Unknown
// keys are rejected so typos do not silently fall back to reset values.
func Decode(r io.Reader) ([]Profile, error) {
	var doc struct {
		Profiles []Profile `yaml:"profiles"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	for i := range doc.Profiles {
		applyDefaults(&doc.Profiles[i])
	}
	return doc.Profiles, nil
}

// DecodeTree reads a single clock tree, as written by "f1clk plan --yaml".
func DecodeTree(r io.Reader) (clock.Tree, error) {
	var tree clock.Tree
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&tree); err != nil && !errors.Is(err, io.EOF) {
		return clock.Tree{}, err
	}
	return tree, nil
}

// LoadFile reads a single clock tree from path.
func LoadFile(path string) (clock.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return clock.Tree{}, err
	}
	defer f.Close()
	return DecodeTree(f)
}

// EncodeTree writes t in the format read by DecodeTree.
func EncodeTree(w io.Writer, t clock.Tree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return err
	}
	return enc.Close()
}

func applyDefaults(p *Profile) {
	if p.Description == "" {
		p.Description = p.Name
	}
}

func init() {
	var err error
	builtin, err = Decode(bytes.NewReader(rawProfiles))
	if err != nil {
		panic(err)
	}
}
