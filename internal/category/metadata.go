// Package category reads the _category_ metadata files that customize folder categories.
package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	// MetadataFileNameBase is the base name shared by all category metadata files.
	MetadataFileNameBase = "_category_"

	jsonExtension = ".json"

	invalidMetadataMessage  = "The docs sidebar category metadata file looks invalid!\nPath: %s"
	errorStatMetadataFormat = "stat category metadata %s: %w"
	errorReadMetadataFormat = "read category metadata %s: %w"
	errorDecoderFormat      = "create category metadata decoder: %w"
	errorEmptyDocument      = "document is empty"
)

// MetadataFileExtensions lists the recognized extensions in lookup order.
var MetadataFileExtensions = []string{jsonExtension, ".yml", ".yaml"}

// Metadata customizes the folder category generated for a directory.
type Metadata struct {
	Label       string   `mapstructure:"label" json:"label,omitempty" yaml:"label,omitempty"`
	Position    *float64 `mapstructure:"position" json:"position,omitempty" yaml:"position,omitempty"`
	Collapsible *bool    `mapstructure:"collapsible" json:"collapsible,omitempty" yaml:"collapsible,omitempty"`
	Collapsed   *bool    `mapstructure:"collapsed" json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	ClassName   string   `mapstructure:"className" json:"className,omitempty" yaml:"className,omitempty"`
}

// InvalidMetadataError reports a metadata file that exists but cannot be parsed.
type InvalidMetadataError struct {
	Path string
	Err  error
}

// Error returns the user-facing diagnostic naming the offending file.
func (invalidMetadataError *InvalidMetadataError) Error() string {
	return fmt.Sprintf(invalidMetadataMessage, invalidMetadataError.Path)
}

// Unwrap exposes the parse failure.
func (invalidMetadataError *InvalidMetadataError) Unwrap() error {
	return invalidMetadataError.Err
}

// ReadMetadataFile loads the metadata file of directory. It checks the extensions in
// MetadataFileExtensions order and parses the first file that exists. It returns nil
// metadata and a nil error when the directory has no metadata file.
func ReadMetadataFile(directory string) (*Metadata, error) {
	for _, extension := range MetadataFileExtensions {
		metadataPath := filepath.Join(directory, MetadataFileNameBase+extension)
		info, statError := os.Stat(metadataPath)
		if statError != nil {
			if errors.Is(statError, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf(errorStatMetadataFormat, filepath.ToSlash(metadataPath), statError)
		}
		if info.IsDir() {
			continue
		}
		return readMetadata(metadataPath, extension)
	}
	return nil, nil
}

// #nosec G304
func readMetadata(metadataPath string, extension string) (*Metadata, error) {
	content, readError := os.ReadFile(metadataPath)
	if readError != nil {
		return nil, fmt.Errorf(errorReadMetadataFormat, filepath.ToSlash(metadataPath), readError)
	}
	metadata, parseError := ParseMetadata(content, extension == jsonExtension)
	if parseError != nil {
		return nil, &InvalidMetadataError{Path: filepath.ToSlash(metadataPath), Err: parseError}
	}
	return metadata, nil
}

// ParseMetadata decodes JSON or YAML metadata content. Unknown keys are rejected.
func ParseMetadata(content []byte, isJSON bool) (*Metadata, error) {
	var document map[string]interface{}
	var unmarshalError error
	if isJSON {
		unmarshalError = json.Unmarshal(content, &document)
	} else {
		unmarshalError = yaml.Unmarshal(content, &document)
	}
	if unmarshalError != nil {
		return nil, unmarshalError
	}
	if document == nil {
		return nil, errors.New(errorEmptyDocument)
	}

	var metadata Metadata
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &metadata,
	})
	if decoderError != nil {
		return nil, fmt.Errorf(errorDecoderFormat, decoderError)
	}
	if decodeError := decoder.Decode(document); decodeError != nil {
		return nil, decodeError
	}
	return &metadata, nil
}
