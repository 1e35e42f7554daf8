// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// exportFile is the document written by ExportYAML.
type exportFile struct {
	Sources []types.Source `yaml:"sources"`
}

// ExportYAML writes the current list to w as a YAML document.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	list, err := s.Load(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(exportFile{Sources: list})
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the current list to w as the same JSON array that is
// stored under StorageKey.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	list, err := s.Load(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

// importEntry mirrors types.Source with an optional enabled flag.
type importEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	RSSURL   string `yaml:"rss_url"`
	Category string `yaml:"category"`
	Enabled  *bool  `yaml:"enabled"`
}

// ImportYAML replaces the stored list with the sources read from r. Every
// entry needs a name and an RSS URL; IDs are kept when present and unique,
// and entries without an enabled flag are enabled.
func (s *Store) ImportYAML(ctx context.Context, r io.Reader) ([]types.Source, error) {
	var doc struct {
		Sources []importEntry `yaml:"sources"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	imported := make([]types.Source, 0, len(doc.Sources))
	for i, src := range doc.Sources {
		in := Input{Name: src.Name, URL: src.URL, RSSURL: src.RSSURL, Category: src.Category}
		n, err := s.newSource(in)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		if src.Enabled != nil {
			n.Enabled = *src.Enabled
		}
		if src.ID != "" {
			n.ID = src.ID
		}
		n.ID = uniqueID(imported, n.ID)
		imported = append(imported, n)
	}

	return s.mutate(ctx, func([]types.Source) ([]types.Source, error) {
		return imported, nil
	})
}
