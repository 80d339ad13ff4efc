// Package kcicfg loads KernelCI platform definitions from YAML configuration.
package kcicfg

import (
	"fmt"
	"sort"

	"github.com/kernelci/kcicfg/config"
	"github.com/kernelci/kcicfg/internal/slog"
	"github.com/kernelci/kcicfg/types"
)

// Loader turns parsed configuration documents into entities.
type Loader struct {
	conf     config.Config
	log      slog.Logger
	entities map[string]entity
	sections []section
}

// PlatformConfig is the platforms fragment of an assembled configuration.
type PlatformConfig struct {
	Platforms map[string]types.Platform
}

// Configs is the full configuration assembled from every section of a document.
type Configs struct {
	Platforms map[string]types.Platform
}

// section builds one top level fragment of a document into c.
type section struct {
	key   string
	build func(l *Loader, doc map[string]any, c *Configs) error
}

// New returns a Loader with every known entity and section registered.
func New(conf config.Config) *Loader {
	conf.SetDefaults()
	l := &Loader{
		conf: conf,
		log:  conf.Log,
	}
	l.entities = map[string]entity{
		types.PlatformTag: {
			fields: types.PlatformFields,
			load: func(name string, entry any) (any, error) {
				return types.PlatformFromEntry(name, entry, l.entryOpts(types.PlatformTag, name)...)
			},
		},
	}
	l.sections = []section{
		{
			key: "platforms",
			build: func(l *Loader, doc map[string]any, c *Configs) error {
				pc, err := l.BuildPlatforms(doc, nil)
				if err != nil {
					return err
				}
				c.Platforms = pc.Platforms
				return nil
			},
		},
	}
	return l
}

// BuildPlatforms creates a Platform for every entry under the "platforms" key of doc.
// A missing key returns an empty map.
// The aux value is accepted for symmetry with other section builders and is not used.
// Errors from an entry are returned as is, and no partial result is returned.
func (l *Loader) BuildPlatforms(doc map[string]any, aux any) (PlatformConfig, error) {
	pc := PlatformConfig{
		Platforms: map[string]types.Platform{},
	}
	entries, err := sectionMap(doc, "platforms")
	if err != nil {
		return PlatformConfig{}, err
	}
	for name, entry := range entries {
		p, err := loadEntity[types.Platform](l, types.PlatformTag, name, entry)
		if err != nil {
			return PlatformConfig{}, err
		}
		pc.Platforms[name] = p
	}
	l.log.Debug("platforms loaded", "count", len(pc.Platforms))
	return pc, nil
}

// Load assembles every registered section of doc.
func (l *Loader) Load(doc map[string]any) (*Configs, error) {
	c := &Configs{}
	for _, s := range l.sections {
		if err := s.build(l, doc, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Sections lists the top level keys handled by Load.
func (l *Loader) Sections() []string {
	keys := make([]string, 0, len(l.sections))
	for _, s := range l.sections {
		keys = append(keys, s.key)
	}
	return keys
}

// sectionMap returns the mapping under key, or an empty mapping when the key is missing or null.
func sectionMap(doc map[string]any, key string) (map[string]any, error) {
	v, ok := doc[key]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &types.LoadError{Field: key, Err: fmt.Errorf("%w: %T", types.ErrEntryType, v)}
	}
	return m, nil
}

// Names returns the sorted keys of a platform map.
func Names(platforms map[string]types.Platform) []string {
	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
