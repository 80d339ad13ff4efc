package kcicfg

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/kernelci/kcicfg/config"
	"github.com/kernelci/kcicfg/types"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
		if err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func TestLoadDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"10-platforms.yaml": `
platforms:
  qemu-x86:
    boot_method: grub
  rpi4:
    arch: arm64
    mach: bcm2711
    dtb: rpi4.dtb
    params:
      console: ttyS1
`,
		"20-override.yml": `
platforms:
  rpi4:
    arch: arm64
    mach: broadcom
    dtb: broadcom/bcm2711-rpi-4-b.dtb
  odroid:
    arch: arm64
    context: {}
`,
		"30-empty.yaml": ``,
		"README.md":     `not loaded`,
	})
	if err := os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	c, err := New(config.Config{}).LoadDir(dir)
	if err != nil {
		t.Fatalf("failed to load dir: %v", err)
	}
	if names := Names(c.Platforms); !reflect.DeepEqual(names, []string{"odroid", "qemu-x86", "rpi4"}) {
		t.Fatalf("unexpected platforms: %v", names)
	}
	rpi := c.Platforms["rpi4"]
	if rpi.Mach() != "broadcom" {
		t.Errorf("mach: expected broadcom, received %s", rpi.Mach())
	}
	if dtb, _ := rpi.DTB(); dtb != "broadcom/bcm2711-rpi-4-b.dtb" {
		t.Errorf("dtb: expected broadcom/bcm2711-rpi-4-b.dtb, received %s", dtb)
	}
	// entries are replaced, not merged field by field
	if rpi.Params() != nil {
		t.Errorf("params should be absent after override, received %v", rpi.Params())
	}
	if ctx := c.Platforms["odroid"].Context(); ctx == nil || len(ctx) != 0 {
		t.Errorf("odroid context should be an empty map, received %#v", ctx)
	}
}

func TestLoadFilesErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"bad.yaml":    "platforms: [unclosed",
		"type.yaml":   "platforms:\n  rpi4:\n    context: ttyS0\n",
		"list.yaml":   "- platforms\n",
		"strict.yaml": "platforms:\n  rpi4:\n    compatible: rpi\n",
	})
	tt := []struct {
		name      string
		file      string
		conf      config.Config
		expectErr error
	}{
		{
			name:      "missing file",
			file:      "missing.yaml",
			expectErr: os.ErrNotExist,
		},
		{
			name: "syntax",
			file: "bad.yaml",
		},
		{
			name: "not a mapping",
			file: "list.yaml",
		},
		{
			name:      "field type",
			file:      "type.yaml",
			expectErr: types.ErrFieldType,
		},
		{
			name:      "strict",
			file:      "strict.yaml",
			conf:      config.Config{Strictness: config.StrictReject},
			expectErr: types.ErrUnknownField,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.conf).LoadFiles(filepath.Join(dir, tc.file))
			if err == nil {
				t.Fatalf("load did not fail")
			}
			if tc.expectErr != nil && !errors.Is(err, tc.expectErr) {
				t.Errorf("unexpected error, received %v, expected %v", err, tc.expectErr)
			}
		})
	}
	_, err := New(config.Config{}).LoadDir(filepath.Join(dir, "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unexpected error for missing dir: %v", err)
	}
}

func TestLoadPaths(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	sub := filepath.Join(dir, "platforms")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	writeFiles(t, sub, map[string]string{
		"x86.yaml": "platforms:\n  qemu-x86: {}\n",
	})
	writeFiles(t, dir, map[string]string{
		"extra.yaml": "platforms:\n  qemu-x86:\n    arch: i386\n",
	})
	c, err := New(config.Config{}).LoadPaths(sub, filepath.Join(dir, "extra.yaml"))
	if err != nil {
		t.Fatalf("failed to load paths: %v", err)
	}
	if c.Platforms["qemu-x86"].Arch() != "i386" {
		t.Errorf("arch: expected i386, received %s", c.Platforms["qemu-x86"].Arch())
	}
	_, err = New(config.Config{}).LoadPaths(filepath.Join(dir, "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unexpected error for missing path: %v", err)
	}
}

func TestDumpReload(t *testing.T) {
	t.Parallel()
	orig := map[string]types.Platform{
		"rpi4": types.NewPlatform("rpi4",
			types.WithArch("arm64"),
			types.WithBaseName("bcm2711-rpi-4-b"),
			types.WithDTB("rpi4.dtb"),
			types.WithMach("bcm2711"),
			types.WithContext(map[string]any{"console": "ttyS1"}),
		),
		"qemu-x86": types.NewPlatform("qemu-x86"),
	}
	out, err := yaml.Marshal(map[string]any{"platforms": orig})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"dump.yaml": string(out)})
	c, err := New(config.Config{Strictness: config.StrictReject}).LoadFiles(filepath.Join(dir, "dump.yaml"))
	if err != nil {
		t.Fatalf("failed to reload dump: %v\n%s", err, out)
	}
	if len(c.Platforms) != len(orig) {
		t.Fatalf("unexpected platforms after reload: %v", Names(c.Platforms))
	}
	for name, p := range orig {
		expect, err := p.Digest()
		if err != nil {
			t.Fatalf("failed to digest %s: %v", name, err)
		}
		received, err := c.Platforms[name].Digest()
		if err != nil {
			t.Fatalf("failed to digest %s: %v", name, err)
		}
		if expect.String() != received.String() {
			t.Errorf("platform %s changed after reload", name)
		}
	}
}
