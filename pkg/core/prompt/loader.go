package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFromDirectory loads all prompt JSON files under baseDir/prompts into
// the registry. File-defined prompts override built-in defaults with the
// same ID.
//
// Expected structure:
//
//	baseDir/
//	  prompts/
//	    category1/
//	      prompt1.json
func LoadFromDirectory(r *Registry, baseDir string) error {
	promptDir := filepath.Join(baseDir, "prompts")
	if _, err := os.Stat(promptDir); os.IsNotExist(err) {
		return fmt.Errorf("prompts directory not found: %s", promptDir)
	}

	return filepath.Walk(promptDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var pt PromptTemplate
		if err := json.Unmarshal(data, &pt); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		if pt.ID == "" {
			pt.ID = idFromPath(path, promptDir)
		}
		if pt.Category == "" {
			pt.Category = categoryFromPath(path, promptDir)
		}

		return r.Register(&pt)
	})
}

// idFromPath derives "category.name" from the file's location.
func idFromPath(path, baseDir string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.ReplaceAll(rel, string(filepath.Separator), ".")
}

// categoryFromPath uses the first directory under prompts/ as the category.
func categoryFromPath(path, baseDir string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return ""
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) > 1 {
		return parts[0]
	}
	return ""
}
