package types

import (
	"encoding/json"
	"maps"

	digest "github.com/sudo-bmitch/oci-digest"
	"gopkg.in/yaml.v3"
)

const (
	// PlatformTag identifies a Platform entry when dispatching on entity type.
	PlatformTag = "!Platform"

	// ArchDefault is the architecture used when none is configured.
	ArchDefault = "x86_64"
	// BootMethodDefault is the boot method used when none is configured.
	BootMethodDefault = "grub"
	// MachDefault is the sub-architecture used when none is configured.
	MachDefault = "x86"
)

// Platform describes a hardware target and how it is booted.
// Fields are only set by [NewPlatform] and are read through accessors.
type Platform struct {
	name       string
	arch       string
	baseName   string
	bootMethod string
	context    map[string]any
	dtb        *string
	mach       string
	params     map[string]any
}

// PlatformOpt sets an optional field on a new Platform.
type PlatformOpt func(*Platform)

// WithArch sets the architecture, for example `x86_64` or `arm64`.
func WithArch(arch string) PlatformOpt {
	return func(p *Platform) {
		p.arch = arch
	}
}

// WithBaseName sets the base name, used to group variants of the same platform.
func WithBaseName(baseName string) PlatformOpt {
	return func(p *Platform) {
		p.baseName = baseName
	}
}

// WithBootMethod sets the boot method, for example `grub` or `u-boot`.
func WithBootMethod(bootMethod string) PlatformOpt {
	return func(p *Platform) {
		p.bootMethod = bootMethod
	}
}

// WithContext sets the context variables used for platform boot.
// The map is copied, a nil map leaves the context absent.
func WithContext(context map[string]any) PlatformOpt {
	return func(p *Platform) {
		p.context = maps.Clone(context)
	}
}

// WithDTB sets the device tree blob file name.
func WithDTB(dtb string) PlatformOpt {
	return func(p *Platform) {
		p.dtb = &dtb
	}
}

// WithMach sets the sub-architecture.
func WithMach(mach string) PlatformOpt {
	return func(p *Platform) {
		p.mach = mach
	}
}

// WithParams sets arbitrary parameters passed to templates.
// The map is copied, a nil map leaves the params absent.
func WithParams(params map[string]any) PlatformOpt {
	return func(p *Platform) {
		p.params = maps.Clone(params)
	}
}

// NewPlatform returns a Platform with defaults applied for any option not given.
// Values are not validated.
func NewPlatform(name string, opts ...PlatformOpt) Platform {
	p := Platform{
		name:       name,
		arch:       ArchDefault,
		bootMethod: BootMethodDefault,
		mach:       MachDefault,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Name is the platform name, unique within a configuration.
func (p Platform) Name() string {
	return p.name
}

// Arch is the platform architecture.
func (p Platform) Arch() string {
	return p.arch
}

// BaseName returns the configured base name, or the name when the base name is unset.
func (p Platform) BaseName() string {
	if p.baseName != "" {
		return p.baseName
	}
	return p.name
}

// BootMethod is the mechanism used to boot the platform.
func (p Platform) BootMethod() string {
	return p.bootMethod
}

// Context returns a copy of the context variables, or nil when none were configured.
func (p Platform) Context() map[string]any {
	return maps.Clone(p.context)
}

// DTB returns the device tree blob file name and whether one was configured.
func (p Platform) DTB() (string, bool) {
	if p.dtb == nil {
		return "", false
	}
	return *p.dtb, true
}

// Mach is the platform sub-architecture.
func (p Platform) Mach() string {
	return p.mach
}

// Params returns a copy of the template parameters, or nil when none were configured.
func (p Platform) Params() map[string]any {
	return maps.Clone(p.params)
}

// Copy returns a memory safe copy of the Platform object
func (p Platform) Copy() Platform {
	p2 := p
	p2.context = maps.Clone(p.context)
	p2.params = maps.Clone(p.params)
	if p.dtb != nil {
		dtb := *p.dtb
		p2.dtb = &dtb
	}
	return p2
}

// PlatformFields lists the entry fields a Platform accepts beyond [BaseFields].
func PlatformFields() []string {
	return []string{
		"arch",
		"base_name",
		"boot_method",
		"context",
		"dtb",
		"mach",
		"params",
	}
}

// BaseFields lists the entry fields accepted by every entity.
func BaseFields() []string {
	return []string{"name"}
}

// platformDoc is the serialized form of a Platform.
type platformDoc struct {
	Name       string         `json:"name" yaml:"name"`
	Arch       string         `json:"arch" yaml:"arch"`
	BaseName   string         `json:"base_name" yaml:"base_name"`
	BootMethod string         `json:"boot_method" yaml:"boot_method"`
	Context    map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
	DTB        *string        `json:"dtb,omitempty" yaml:"dtb,omitempty"`
	Mach       string         `json:"mach" yaml:"mach"`
	Params     map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

func (p Platform) doc() platformDoc {
	return platformDoc{
		Name:       p.name,
		Arch:       p.arch,
		BaseName:   p.BaseName(),
		BootMethod: p.bootMethod,
		Context:    p.context,
		DTB:        p.dtb,
		Mach:       p.mach,
		Params:     p.params,
	}
}

// MarshalJSON outputs the resolved field values.
func (p Platform) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.doc())
}

// MarshalYAML outputs a mapping tagged with [PlatformTag].
func (p Platform) MarshalYAML() (any, error) {
	n := &yaml.Node{}
	err := n.Encode(p.doc())
	if err != nil {
		return nil, err
	}
	n.Tag = PlatformTag
	return n, nil
}

// Digest returns the digest of the JSON encoding.
// Map keys are sorted by the encoder so equal platforms have equal digests.
func (p Platform) Digest() (digest.Digest, error) {
	var d digest.Digest
	b, err := p.MarshalJSON()
	if err != nil {
		return d, err
	}
	return digest.FromString(string(b))
}
