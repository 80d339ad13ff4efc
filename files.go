package kcicfg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFiles parses each YAML file, merges the documents in order, and assembles the result.
// Top level mappings are merged key by key with later files taking precedence,
// any other top level value is replaced.
func (l *Loader) LoadFiles(paths ...string) (*Configs, error) {
	doc := map[string]any{}
	for _, p := range paths {
		fileDoc, err := readYAML(p)
		if err != nil {
			return nil, err
		}
		mergeDoc(doc, fileDoc)
		l.log.Debug("configuration file read", "file", p, "sections", len(fileDoc))
	}
	return l.Load(doc)
}

// LoadDir loads every *.yaml and *.yml file in dir, sorted by file name.
func (l *Loader) LoadDir(dir string) (*Configs, error) {
	paths, err := dirYAML(dir)
	if err != nil {
		return nil, err
	}
	return l.LoadFiles(paths...)
}

// LoadPaths accepts a mix of files and directories.
// Directories are expanded with the same rules as LoadDir, in the order given.
func (l *Loader) LoadPaths(paths ...string) (*Configs, error) {
	files := []string{}
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat config path %s: %w", p, err)
		}
		if !fi.IsDir() {
			files = append(files, p)
			continue
		}
		dirFiles, err := dirYAML(p)
		if err != nil {
			return nil, err
		}
		files = append(files, dirFiles...)
	}
	return l.LoadFiles(files...)
}

// dirYAML returns the sorted YAML files directly inside dir.
func dirYAML(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory %s: %w", dir, err)
	}
	paths := []string{}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func readYAML(p string) (map[string]any, error) {
	fh, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer fh.Close()
	doc := map[string]any{}
	err = yaml.NewDecoder(fh).Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", p, err)
	}
	return doc, nil
}

func mergeDoc(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcOK := v.(map[string]any)
		dstMap, dstOK := dst[k].(map[string]any)
		if srcOK && dstOK {
			for sk, sv := range srcMap {
				dstMap[sk] = sv
			}
			continue
		}
		dst[k] = v
	}
}
