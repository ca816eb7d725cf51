package report

import (
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"
)

// RenderJSON serializes the document with stable indentation.
func RenderJSON(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseJSON deserializes a report document.
func ParseJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return doc, nil
}

// RenderYAML serializes the document as YAML using the same json tags.
func RenderYAML(doc Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}
