package types

import (
	"fmt"
	"slices"
	"sort"
)

type entryConf struct {
	unknownFn func(field string) error
}

// EntryOpt configures how an entry is decoded.
type EntryOpt func(*entryConf)

// WithUnknownField sets a hook called, in sorted order, for every undeclared field in an entry.
// Returning an error from the hook fails the decode.
// Without a hook, undeclared fields are ignored.
func WithUnknownField(fn func(field string) error) EntryOpt {
	return func(c *entryConf) {
		c.unknownFn = fn
	}
}

// PlatformFromEntry creates a Platform from a configuration entry.
// The name is provided separately, any name field inside the entry is ignored.
// A nil entry returns a Platform with all defaults.
func PlatformFromEntry(name string, entry any, opts ...EntryOpt) (Platform, error) {
	c := entryConf{}
	for _, opt := range opts {
		opt(&c)
	}
	if entry == nil {
		return NewPlatform(name), nil
	}
	m, ok := entry.(map[string]any)
	if !ok {
		return Platform{}, &LoadError{Tag: PlatformTag, Name: name, Err: fmt.Errorf("%w: %T", ErrEntryType, entry)}
	}
	if err := checkFields(PlatformTag, name, m, PlatformFields(), c.unknownFn); err != nil {
		return Platform{}, err
	}

	pOpts := []PlatformOpt{}
	for _, f := range []struct {
		key string
		fn  func(string) PlatformOpt
	}{
		{key: "arch", fn: WithArch},
		{key: "base_name", fn: WithBaseName},
		{key: "boot_method", fn: WithBootMethod},
		{key: "dtb", fn: WithDTB},
		{key: "mach", fn: WithMach},
	} {
		s, ok, err := entryString(m, f.key)
		if err != nil {
			return Platform{}, &LoadError{Tag: PlatformTag, Name: name, Field: f.key, Err: err}
		}
		if ok {
			pOpts = append(pOpts, f.fn(s))
		}
	}
	for _, f := range []struct {
		key string
		fn  func(map[string]any) PlatformOpt
	}{
		{key: "context", fn: WithContext},
		{key: "params", fn: WithParams},
	} {
		mv, ok, err := entryMap(m, f.key)
		if err != nil {
			return Platform{}, &LoadError{Tag: PlatformTag, Name: name, Field: f.key, Err: err}
		}
		if ok {
			pOpts = append(pOpts, f.fn(mv))
		}
	}
	return NewPlatform(name, pOpts...), nil
}

// checkFields passes any field not in the base or declared list to unknownFn.
func checkFields(tag, name string, m map[string]any, declared []string, unknownFn func(string) error) error {
	if unknownFn == nil {
		return nil
	}
	unknown := []string{}
	for k := range m {
		if !slices.Contains(BaseFields(), k) && !slices.Contains(declared, k) {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		if err := unknownFn(k); err != nil {
			return &LoadError{Tag: tag, Name: name, Field: k, Err: err}
		}
	}
	return nil
}

// entryString returns the string value of a key, ok is false when the key is missing or null.
func entryString(m map[string]any, key string) (string, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: expected string, received %T", ErrFieldType, v)
	}
	return s, true, nil
}

// entryMap returns the mapping value of a key, ok is false when the key is missing or null.
func entryMap(m map[string]any, key string) (map[string]any, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	mv, ok := v.(map[string]any)
	if !ok {
		return nil, false, fmt.Errorf("%w: expected mapping, received %T", ErrFieldType, v)
	}
	if mv == nil {
		mv = map[string]any{}
	}
	return mv, true, nil
}
