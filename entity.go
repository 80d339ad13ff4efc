package kcicfg

import (
	"fmt"
	"sort"

	"github.com/kernelci/kcicfg/config"
	"github.com/kernelci/kcicfg/types"
)

// entity is the construction path for one tag.
type entity struct {
	fields func() []string
	load   func(name string, entry any) (any, error)
}

// Entity creates the entity registered for tag from a configuration entry.
func (l *Loader) Entity(tag, name string, entry any) (any, error) {
	e, ok := l.entities[tag]
	if !ok {
		return nil, &types.LoadError{Tag: tag, Name: name, Err: types.ErrUnknownTag}
	}
	return e.load(name, entry)
}

// Fields lists every field accepted in an entry for tag, including the base fields.
func (l *Loader) Fields(tag string) ([]string, error) {
	e, ok := l.entities[tag]
	if !ok {
		return nil, &types.LoadError{Tag: tag, Err: types.ErrUnknownTag}
	}
	fields := append(types.BaseFields(), e.fields()...)
	sort.Strings(fields)
	return fields, nil
}

// Tags lists the registered entity tags.
func (l *Loader) Tags() []string {
	tags := make([]string, 0, len(l.entities))
	for tag := range l.entities {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func loadEntity[T any](l *Loader, tag, name string, entry any) (T, error) {
	var zero T
	v, err := l.Entity(tag, name, entry)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("entity %s returned %T, expected %T", tag, v, zero)
	}
	return t, nil
}

// entryOpts applies the configured strictness to unknown fields.
func (l *Loader) entryOpts(tag, name string) []types.EntryOpt {
	switch l.conf.Strictness {
	case config.StrictWarn:
		return []types.EntryOpt{types.WithUnknownField(func(field string) error {
			l.log.Warn("ignoring unknown field", "tag", tag, "name", name, "field", field)
			return nil
		})}
	case config.StrictReject:
		return []types.EntryOpt{types.WithUnknownField(func(field string) error {
			return types.ErrUnknownField
		})}
	default:
		return nil
	}
}
