// Package file loads a story project directory of YAML documents into an
// in-memory store. The layout follows the usual story-bible convention:
//
//	project/
//	  chapters/*.yaml
//	  characters/*.yaml
//	  locations/*.yaml
//	  arcs/*.yaml
//	  relationships/*.yaml
//	  foreshadowing/*.yaml
//	  hooks/*.yaml
//	  world.yaml
//
// Every subdirectory is optional; files are read in sorted name order so
// loads are deterministic.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"fabula/internal/story"
	"fabula/internal/storage/memory"
)

// Load reads the project directory at dir and returns a populated store.
func Load(dir string) (*memory.Store, error) {
	store := memory.NewStore()

	if err := loadDir(dir, "chapters", func(data []byte) error {
		var ch story.Chapter
		if err := yaml.Unmarshal(data, &ch); err != nil {
			return err
		}
		store.AddChapter(ch)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadDir(dir, "characters", func(data []byte) error {
		var c story.Character
		if err := yaml.Unmarshal(data, &c); err != nil {
			return err
		}
		store.AddCharacter(c)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadDir(dir, "locations", func(data []byte) error {
		var l story.Location
		if err := yaml.Unmarshal(data, &l); err != nil {
			return err
		}
		store.AddLocation(l)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadDir(dir, "arcs", func(data []byte) error {
		var a story.Arc
		if err := yaml.Unmarshal(data, &a); err != nil {
			return err
		}
		store.AddArc(a)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadDir(dir, "relationships", func(data []byte) error {
		var r story.Relationship
		if err := yaml.Unmarshal(data, &r); err != nil {
			return err
		}
		store.AddRelationship(r)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadDir(dir, "foreshadowing", func(data []byte) error {
		var f story.Foreshadowing
		if err := yaml.Unmarshal(data, &f); err != nil {
			return err
		}
		store.AddForeshadowing(f)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadDir(dir, "hooks", func(data []byte) error {
		var h story.Hook
		if err := yaml.Unmarshal(data, &h); err != nil {
			return err
		}
		store.AddHook(h)
		return nil
	}); err != nil {
		return nil, err
	}

	worldPath := filepath.Join(dir, "world.yaml")
	if data, err := os.ReadFile(worldPath); err == nil {
		var w story.World
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("parse %s: %w", worldPath, err)
		}
		store.SetWorld(&w)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return store, nil
}

// loadDir applies parse to every YAML file under dir/name. A missing
// subdirectory is not an error.
func loadDir(dir, name string, parse func([]byte) error) error {
	sub := filepath.Join(dir, name)
	entries, err := os.ReadDir(sub)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, f := range files {
		path := filepath.Join(sub, f)
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := parse(data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return nil
}
