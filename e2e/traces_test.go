package e2e

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed testdata/traces/*.jsonl
var tracesFS embed.FS

// loadTrace returns the JSON-lines trace with the given name, without extension.
func loadTrace(name string) ([]byte, error) {
	data, err := tracesFS.ReadFile(path.Join("testdata/traces", name+".jsonl"))
	if err != nil {
		return nil, fmt.Errorf("load trace %s: %w", name, err)
	}
	return data, nil
}

// traceNames lists the available traces.
func traceNames() ([]string, error) {
	entries, err := fs.ReadDir(tracesFS, "testdata/traces")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".jsonl"))
	}
	return names, nil
}
