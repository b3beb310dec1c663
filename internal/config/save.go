package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveScanGlobs updates the scan.globs list in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveScanGlobs(configPath string, globs []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	globsNode := &yaml.Node{
		Kind:    yaml.SequenceNode,
		Content: make([]*yaml.Node, 0, len(globs)),
	}
	for _, g := range globs {
		globsNode.Content = append(globsNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: g})
	}
	scanNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "globs"},
			globsNode,
		},
	}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: "scan"},
						scanNode,
					},
				},
			},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind == yaml.MappingNode {
			replaced := false
			for i := 0; i < len(root.Content)-1; i += 2 {
				if root.Content[i].Value != "scan" {
					continue
				}
				existing := root.Content[i+1]
				if existing.Kind == yaml.MappingNode {
					// Replace only the globs key inside the scan section.
					found := false
					for j := 0; j < len(existing.Content)-1; j += 2 {
						if existing.Content[j].Value == "globs" {
							existing.Content[j+1] = globsNode
							found = true
							break
						}
					}
					if !found {
						existing.Content = append(existing.Content,
							&yaml.Node{Kind: yaml.ScalarNode, Value: "globs"},
							globsNode,
						)
					}
				} else {
					root.Content[i+1] = scanNode
				}
				replaced = true
				break
			}
			if !replaced {
				root.Content = append(root.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: "scan"},
					scanNode,
				)
			}
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	// Write atomically (write to temp, then rename)
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".startools.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
