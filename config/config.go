// Package config contains data types for configuration of kcicfg.
package config

import (
	"fmt"
	"strings"

	"github.com/kernelci/kcicfg/internal/slog"
)

// Strictness sets how fields unknown to an entity are handled.
type Strictness int

const (
	StrictUndef  Strictness = iota // undefined strictness is replaced by SetDefaults
	StrictIgnore                   // StrictIgnore silently drops unknown fields
	StrictWarn                     // StrictWarn drops unknown fields and logs a warning
	StrictReject                   // StrictReject fails the load on any unknown field
)

type Config struct {
	Strictness Strictness
	HTTP       ConfigHTTP
	Log        slog.Logger
}

type ConfigHTTP struct {
	Addr string // address to listen on, e.g. ":8080"
}

const (
	addrDefault = ":8080"
)

// SetDefaults fills in any unset values.
func (c *Config) SetDefaults() {
	if c.Strictness == StrictUndef {
		c.Strictness = StrictWarn
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = addrDefault
	}
	if c.Log == nil {
		c.Log = slog.Null{}
	}
}

func (s Strictness) MarshalText() ([]byte, error) {
	var ret string
	switch s {
	case StrictIgnore:
		ret = "ignore"
	case StrictWarn:
		ret = "warn"
	case StrictReject:
		ret = "reject"
	}
	if ret == "" {
		return []byte{}, fmt.Errorf("unknown strictness value %d", int(s))
	}
	return []byte(ret), nil
}

func (s *Strictness) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	default:
		return fmt.Errorf("unknown strictness value \"%s\"", b)
	case "ignore":
		*s = StrictIgnore
	case "warn":
		*s = StrictWarn
	case "reject":
		*s = StrictReject
	}
	return nil
}
