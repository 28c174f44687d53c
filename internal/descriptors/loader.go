// Package descriptors loads page descriptors from JSON and YAML files.
package descriptors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/temirov/apisidebar/internal/types"
)

const (
	maxConcurrentReads = 8

	extensionJSON = ".json"
	extensionYML  = ".yml"
	extensionYAML = ".yaml"

	errorReadFileFormat          = "read descriptors from %s: %w"
	errorDecodeFileFormat        = "decode descriptors from %s: %w"
	errorUnsupportedFormat       = "unsupported descriptor file %s: expected .json, .yml, or .yaml"
	errorInvalidDescriptorFormat = "descriptor %d in %s: %w"
	errorUnknownTypeFormat       = "unknown descriptor type %q"
)

// document is the object form of a descriptor file.
type document struct {
	Items []types.PageDescriptor `json:"items" yaml:"items"`
}

// LoadFiles reads descriptors from every path concurrently and returns them concatenated
// in argument order.
func LoadFiles(ctx context.Context, paths []string) ([]types.PageDescriptor, error) {
	loaded := make([][]types.PageDescriptor, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentReads)
	for index, descriptorPath := range paths {
		index, descriptorPath := index, descriptorPath
		group.Go(func() error {
			if contextError := groupCtx.Err(); contextError != nil {
				return contextError
			}
			fileDescriptors, loadError := LoadFile(descriptorPath)
			if loadError != nil {
				return loadError
			}
			loaded[index] = fileDescriptors
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}

	var result []types.PageDescriptor
	for _, fileDescriptors := range loaded {
		result = append(result, fileDescriptors...)
	}
	return result, nil
}

// LoadFile reads and validates the descriptors of a single file.
//
// #nosec G304
func LoadFile(descriptorPath string) ([]types.PageDescriptor, error) {
	content, readError := os.ReadFile(descriptorPath)
	if readError != nil {
		return nil, fmt.Errorf(errorReadFileFormat, descriptorPath, readError)
	}
	fileDescriptors, decodeError := Decode(content, filepath.Ext(descriptorPath))
	if decodeError != nil {
		return nil, fmt.Errorf(errorDecodeFileFormat, descriptorPath, decodeError)
	}
	for index, descriptor := range fileDescriptors {
		if validationError := Validate(descriptor); validationError != nil {
			return nil, fmt.Errorf(errorInvalidDescriptorFormat, index, descriptorPath, validationError)
		}
	}
	return fileDescriptors, nil
}

// Decode parses descriptor content. The extension selects the codec; both an array of
// descriptors and an object with an "items" array are accepted.
func Decode(content []byte, extension string) ([]types.PageDescriptor, error) {
	switch strings.ToLower(extension) {
	case extensionJSON:
		trimmed := bytes.TrimSpace(content)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			var wrapped document
			if err := json.Unmarshal(trimmed, &wrapped); err != nil {
				return nil, err
			}
			return wrapped.Items, nil
		}
		var list []types.PageDescriptor
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	case extensionYML, extensionYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(content, &node); err != nil {
			return nil, err
		}
		if len(node.Content) == 0 {
			return nil, nil
		}
		if node.Content[0].Kind == yaml.MappingNode {
			var wrapped document
			if err := node.Decode(&wrapped); err != nil {
				return nil, err
			}
			return wrapped.Items, nil
		}
		var list []types.PageDescriptor
		if err := node.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf(errorUnsupportedFormat, extension)
	}
}

// Validate reports descriptors whose discriminant is neither info nor api.
func Validate(descriptor types.PageDescriptor) error {
	switch descriptor.Type {
	case types.DescriptorTypeInfo, types.DescriptorTypeAPI:
		return nil
	default:
		return fmt.Errorf(errorUnknownTypeFormat, descriptor.Type)
	}
}
