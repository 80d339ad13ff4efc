package types

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestPlatformDefaults(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"qemu-x86", "rpi4", "bcm2711-rpi-4-b"} {
		t.Run(name, func(t *testing.T) {
			p := NewPlatform(name)
			if p.Name() != name {
				t.Errorf("name: expected %s, received %s", name, p.Name())
			}
			if p.BaseName() != name {
				t.Errorf("base name: expected %s, received %s", name, p.BaseName())
			}
			if p.Arch() != "x86_64" {
				t.Errorf("arch: expected x86_64, received %s", p.Arch())
			}
			if p.BootMethod() != "grub" {
				t.Errorf("boot method: expected grub, received %s", p.BootMethod())
			}
			if p.Mach() != "x86" {
				t.Errorf("mach: expected x86, received %s", p.Mach())
			}
			if dtb, ok := p.DTB(); ok {
				t.Errorf("dtb should be absent, received %s", dtb)
			}
			if p.Context() != nil {
				t.Errorf("context should be nil, received %v", p.Context())
			}
			if p.Params() != nil {
				t.Errorf("params should be nil, received %v", p.Params())
			}
		})
	}
}

func TestPlatformOpts(t *testing.T) {
	t.Parallel()
	p := NewPlatform("rpi4",
		WithArch("arm64"),
		WithBaseName("bcm2711-rpi-4-b"),
		WithBootMethod("u-boot"),
		WithDTB("broadcom/bcm2711-rpi-4-b.dtb"),
		WithMach("broadcom"),
	)
	if p.Arch() != "arm64" {
		t.Errorf("arch: expected arm64, received %s", p.Arch())
	}
	if p.BaseName() != "bcm2711-rpi-4-b" {
		t.Errorf("base name: expected bcm2711-rpi-4-b, received %s", p.BaseName())
	}
	if p.BootMethod() != "u-boot" {
		t.Errorf("boot method: expected u-boot, received %s", p.BootMethod())
	}
	if dtb, ok := p.DTB(); !ok || dtb != "broadcom/bcm2711-rpi-4-b.dtb" {
		t.Errorf("dtb: expected broadcom/bcm2711-rpi-4-b.dtb, received %s, %t", dtb, ok)
	}
	if p.Mach() != "broadcom" {
		t.Errorf("mach: expected broadcom, received %s", p.Mach())
	}
	// an empty base name falls back to the name
	p = NewPlatform("rpi4", WithBaseName(""))
	if p.BaseName() != "rpi4" {
		t.Errorf("empty base name: expected rpi4, received %s", p.BaseName())
	}
	// values are not validated
	p = NewPlatform("odd", WithBootMethod("not-a-real-boot-method"), WithArch(""))
	if p.BootMethod() != "not-a-real-boot-method" {
		t.Errorf("boot method: expected not-a-real-boot-method, received %s", p.BootMethod())
	}
	if p.Arch() != "" {
		t.Errorf("arch: expected empty string, received %s", p.Arch())
	}
}

func TestPlatformMapCopies(t *testing.T) {
	t.Parallel()
	input := map[string]any{"console": "ttyS0", "nested": map[string]any{"a": 1}}
	tt := []struct {
		name string
		opt  func(map[string]any) PlatformOpt
		get  func(Platform) map[string]any
	}{
		{
			name: "context",
			opt:  WithContext,
			get:  Platform.Context,
		},
		{
			name: "params",
			opt:  WithParams,
			get:  Platform.Params,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			in := map[string]any{}
			for k, v := range input {
				in[k] = v
			}
			p := NewPlatform("qemu", tc.opt(in))
			// changes to the input do not reach the platform
			in["console"] = "changed"
			first := tc.get(p)
			if first["console"] != "ttyS0" {
				t.Errorf("input was aliased, received %v", first["console"])
			}
			first["console"] = "ttyAMA0"
			first["added"] = true
			second := tc.get(p)
			if !reflect.DeepEqual(second, input) {
				t.Errorf("copy was aliased, expected %v, received %v", input, second)
			}
			second["other"] = 1
			if _, ok := first["other"]; ok {
				t.Errorf("successive copies share storage")
			}
			// empty maps stay distinct from absent maps
			empty := tc.get(NewPlatform("qemu", tc.opt(map[string]any{})))
			if empty == nil || len(empty) != 0 {
				t.Errorf("expected empty non-nil map, received %#v", empty)
			}
			absent := tc.get(NewPlatform("qemu", tc.opt(nil)))
			if absent != nil {
				t.Errorf("expected nil map, received %#v", absent)
			}
		})
	}
}

func TestPlatformCopy(t *testing.T) {
	t.Parallel()
	p := NewPlatform("rpi4", WithDTB("rpi4.dtb"), WithParams(map[string]any{"a": "b"}))
	p2 := p.Copy()
	if !reflect.DeepEqual(p, p2) {
		t.Errorf("copy does not match, expected %v, received %v", p, p2)
	}
	if p.dtb == p2.dtb {
		t.Errorf("dtb pointer was not copied")
	}
	p2.params["a"] = "c"
	if p.params["a"] != "b" {
		t.Errorf("params map was not copied")
	}
}

func TestPlatformMarshal(t *testing.T) {
	t.Parallel()
	p := NewPlatform("rpi4",
		WithArch("arm64"),
		WithDTB("rpi4.dtb"),
		WithMach("bcm2711"),
		WithParams(map[string]any{"console": "ttyS1"}),
	)
	t.Run("json", func(t *testing.T) {
		b, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		expect := `{"name":"rpi4","arch":"arm64","base_name":"rpi4","boot_method":"grub","dtb":"rpi4.dtb","mach":"bcm2711","params":{"console":"ttyS1"}}`
		if string(b) != expect {
			t.Errorf("expected %s, received %s", expect, string(b))
		}
	})
	t.Run("yaml", func(t *testing.T) {
		b, err := yaml.Marshal(map[string]Platform{"rpi4": p})
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		out := string(b)
		for _, s := range []string{"rpi4: !Platform", "arch: arm64", "dtb: rpi4.dtb", "console: ttyS1"} {
			if !strings.Contains(out, s) {
				t.Errorf("output is missing %q:\n%s", s, out)
			}
		}
		if strings.Contains(out, "context") {
			t.Errorf("absent context should be omitted:\n%s", out)
		}
	})
	t.Run("digest", func(t *testing.T) {
		d1, err := p.Digest()
		if err != nil {
			t.Fatalf("failed to digest: %v", err)
		}
		d2, err := p.Copy().Digest()
		if err != nil {
			t.Fatalf("failed to digest: %v", err)
		}
		if d1.String() != d2.String() {
			t.Errorf("digest mismatch on copy, %s != %s", d1.String(), d2.String())
		}
		d3, err := NewPlatform("rpi4").Digest()
		if err != nil {
			t.Fatalf("failed to digest: %v", err)
		}
		if d1.String() == d3.String() {
			t.Errorf("different platforms returned the same digest %s", d1.String())
		}
	})
}
