package types

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// FileInfo describes one image as listed by the scan command
type FileInfo struct {
	Path           string            `json:"path"`
	ContentType    string            `json:"type"`
	Size           int64             `json:"size"`
	Width          int               `json:"width,omitempty"`
	Height         int               `json:"height,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	MetadataStatus string            `json:"metadata_status,omitempty"`
}

// Name returns the base name of the file
func (f *FileInfo) Name() string {
	return filepath.Base(f.Path)
}

// ToJSON converts FileInfo to JSON string
func (f *FileInfo) ToJSON() string {
	jsonBytes, _ := json.Marshal(f)
	return string(jsonBytes)
}

// String returns a human-readable representation
func (f *FileInfo) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File: %s\n", f.Path))
	sb.WriteString(fmt.Sprintf("Type: %s\n", f.ContentType))
	sb.WriteString(fmt.Sprintf("Size: %d bytes\n", f.Size))
	if f.Width > 0 && f.Height > 0 {
		sb.WriteString(fmt.Sprintf("Dimensions: %dx%d\n", f.Width, f.Height))
	}
	keys := make([]string, 0, len(f.Metadata))
	for k := range f.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("%s: %s\n", k, f.Metadata[k]))
	}
	return sb.String()
}
