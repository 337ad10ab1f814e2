package formxml

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindFormFiles walks configDir for every Form.xml whose path has both a
// Forms and an Ext component (spec §4.J / §6 input 4), returning paths sorted
// for deterministic processing order.
func FindFormFiles(configDir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(configDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "Form.xml" {
			return nil
		}
		if isValidFormPath(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}

// isValidFormPath enforces the standard on-disk layout: the path must
// contain both a Forms and an Ext path component (spec §4.J).
func isValidFormPath(path string) bool {
	parts := splitPath(path)
	hasForms, hasExt := false, false
	for _, p := range parts {
		switch p {
		case "Forms":
			hasForms = true
		case "Ext":
			hasExt = true
		}
	}
	return hasForms && hasExt
}

// ExtractFormName returns the form's own name: the grand-parent directory
// of Form.xml (.../Forms/FormName/Ext/Form.xml) (spec §4.J).
func ExtractFormName(path string) string {
	extDir := filepath.Dir(path)
	formDir := filepath.Dir(extDir)
	name := filepath.Base(formDir)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

// ExtractObjectName returns the owning object's name: the path component
// immediately preceding Forms (spec §4.J), or "" for a common form with
// no owning object (e.g. CommonForms/MainForm/Ext/Form.xml).
func ExtractObjectName(path string) string {
	parts := splitPath(path)
	for i, p := range parts {
		if p == "Forms" && i > 0 {
			return parts[i-1]
		}
	}
	return ""
}

func splitPath(path string) []string {
	clean := filepath.ToSlash(path)
	return strings.Split(clean, "/")
}
