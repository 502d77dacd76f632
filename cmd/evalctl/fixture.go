package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"kpiboard/internal/domain/evaluation"
)

// taskFixture is either a bare list of tasks or an object with a tasks key,
// in the same shape the REST API serves.
type taskFixture struct {
	Tasks []evaluation.Task `json:"tasks"`
}

func loadTasks(path string) ([]evaluation.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return decodeTasks(data)
}

func decodeTasks(data []byte) ([]evaluation.Task, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var tasks []evaluation.Task
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, err
		}
		return tasks, nil
	}
	var fx taskFixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, err
	}
	return fx.Tasks, nil
}

// yamlToJSON re-encodes a YAML document as JSON so the task types' lenient
// JSON decoders apply to both formats.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(doc))
}

func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	}
	return v
}

func findTask(tasks []evaluation.Task, id string) (*evaluation.Task, bool) {
	for i := range tasks {
		if string(tasks[i].ID) == id {
			return &tasks[i], true
		}
	}
	return nil, false
}
