// Package openapi derives page descriptors from OpenAPI documents.
package openapi

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/iancoleman/strcase"

	"github.com/temirov/apisidebar/internal/category"
	"github.com/temirov/apisidebar/internal/types"
)

const (
	// DefaultRouteBasePath prefixes every generated permalink.
	DefaultRouteBasePath = "/api"
	// DefaultSourcePrefix prefixes every generated source.
	DefaultSourcePrefix = "@site"

	rootDirectory = "."

	errorDiscoverFormat = "discover OpenAPI documents in %s: %w"
	errorLoadFormat     = "load OpenAPI document %s: %w"
	errorRelativeFormat = "relative path of %s: %w"
)

var documentExtensions = map[string]struct{}{
	".json": {},
	".yaml": {},
	".yml":  {},
}

// operationMethods fixes the order in which the operations of a path are emitted.
var operationMethods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
}

// Options control how descriptor sources and permalinks are derived.
type Options struct {
	RouteBasePath string
	SourcePrefix  string
}

func (options Options) normalized() Options {
	result := options
	if result.RouteBasePath == "" {
		result.RouteBasePath = DefaultRouteBasePath
	}
	if !strings.HasPrefix(result.RouteBasePath, "/") {
		result.RouteBasePath = "/" + result.RouteBasePath
	}
	if result.SourcePrefix == "" {
		result.SourcePrefix = DefaultSourcePrefix
	}
	return result
}

// Discover returns the OpenAPI documents below root sorted by path. Hidden directories
// and category metadata files are skipped.
func Discover(root string) ([]string, error) {
	var documents []string
	walkError := filepath.WalkDir(root, func(currentPath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() {
			if currentPath != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, category.MetadataFileNameBase) {
			return nil
		}
		if _, supported := documentExtensions[strings.ToLower(filepath.Ext(name))]; supported {
			documents = append(documents, currentPath)
		}
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorDiscoverFormat, root, walkError)
	}
	sort.Strings(documents)
	return documents, nil
}

// LoadDescriptors loads every document below root and derives its descriptors.
func LoadDescriptors(ctx context.Context, root string, options Options) ([]types.PageDescriptor, error) {
	documentPaths, discoverError := Discover(root)
	if discoverError != nil {
		return nil, discoverError
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true

	sourceRoot := path.Join(options.normalized().SourcePrefix, filepath.ToSlash(filepath.Base(filepath.Clean(root))))
	usedIDs := map[string]struct{}{}
	var result []types.PageDescriptor
	for _, documentPath := range documentPaths {
		if contextError := ctx.Err(); contextError != nil {
			return nil, contextError
		}
		document, loadError := loader.LoadFromFile(documentPath)
		if loadError != nil {
			return nil, fmt.Errorf(errorLoadFormat, documentPath, loadError)
		}
		relativePath, relativeError := filepath.Rel(root, documentPath)
		if relativeError != nil {
			return nil, fmt.Errorf(errorRelativeFormat, documentPath, relativeError)
		}
		result = append(result, documentDescriptors(document, sourceRoot, filepath.ToSlash(relativePath), options, usedIDs)...)
	}
	return result, nil
}

// DocumentDescriptors derives one info descriptor and one api descriptor per operation
// from a loaded document. relativePath is the posix path of the document below sourceRoot.
func DocumentDescriptors(document *openapi3.T, sourceRoot string, relativePath string, options Options) []types.PageDescriptor {
	return documentDescriptors(document, sourceRoot, relativePath, options, map[string]struct{}{})
}

// documentDescriptors records every id it hands out in usedIDs so ids stay unique across documents.
func documentDescriptors(document *openapi3.T, sourceRoot string, relativePath string, options Options, usedIDs map[string]struct{}) []types.PageDescriptor {
	normalizedOptions := options.normalized()
	source := path.Join(sourceRoot, relativePath)
	sourceDirName := path.Dir(relativePath)
	documentID := uniqueID(usedIDs, documentSlug(relativePath))

	documentTitle := ""
	if document.Info != nil {
		documentTitle = document.Info.Title
	}
	introTitle := documentTitle
	if introTitle == "" {
		introTitle = strings.TrimSuffix(path.Base(relativePath), path.Ext(relativePath))
	}

	descriptors := []types.PageDescriptor{{
		Type:          types.DescriptorTypeInfo,
		Title:         introTitle,
		Permalink:     path.Join(normalizedOptions.RouteBasePath, documentID),
		ID:            documentID,
		Source:        source,
		SourceDirName: sourceDirName,
	}}

	for _, route := range sortedRoutes(document) {
		pathItem := document.Paths.Value(route)
		if pathItem == nil {
			continue
		}
		for _, method := range operationMethods {
			operation := pathItem.GetOperation(method)
			if operation == nil {
				continue
			}
			title := operationTitle(operation, method, route)
			operationID := uniqueID(usedIDs, documentID+"/"+slugify(title))
			var tags []string
			if len(operation.Tags) > 0 {
				tags = append(tags, operation.Tags...)
			}
			descriptors = append(descriptors, types.PageDescriptor{
				Type:          types.DescriptorTypeAPI,
				Title:         title,
				Permalink:     path.Join(normalizedOptions.RouteBasePath, operationID),
				ID:            operationID,
				Source:        source,
				SourceDirName: sourceDirName,
				API: &types.APIMetadata{
					Info:       &types.APIInfo{Title: documentTitle},
					Tags:       tags,
					Deprecated: operation.Deprecated,
				},
			})
		}
	}
	return descriptors
}

func sortedRoutes(document *openapi3.T) []string {
	if document.Paths == nil {
		return nil
	}
	routes := make([]string, 0, document.Paths.Len())
	for route := range document.Paths.Map() {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}

func operationTitle(operation *openapi3.Operation, method string, route string) string {
	if summary := strings.TrimSpace(operation.Summary); summary != "" {
		return summary
	}
	if operation.OperationID != "" {
		return operation.OperationID
	}
	return method + " " + route
}

// documentSlug turns a relative document path such as "store/pets.yaml" into "store/pets".
func documentSlug(relativePath string) string {
	withoutExtension := strings.TrimSuffix(relativePath, path.Ext(relativePath))
	segments := strings.Split(withoutExtension, "/")
	slugged := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" || segment == rootDirectory {
			continue
		}
		slugged = append(slugged, slugify(segment))
	}
	return strings.Join(slugged, "/")
}

// slugify lowercases text into a kebab-case identifier.
func slugify(text string) string {
	cleaned := strings.Map(func(character rune) rune {
		if character >= 'a' && character <= 'z' || character >= 'A' && character <= 'Z' || character >= '0' && character <= '9' {
			return character
		}
		return ' '
	}, text)
	return strcase.ToKebab(strings.Join(strings.Fields(cleaned), " "))
}

// uniqueID returns candidate, or candidate with the first free numeric suffix starting at 2.
func uniqueID(usedIDs map[string]struct{}, candidate string) string {
	unique := candidate
	for suffix := 2; ; suffix++ {
		if _, taken := usedIDs[unique]; !taken {
			break
		}
		unique = candidate + "-" + strconv.Itoa(suffix)
	}
	usedIDs[unique] = struct{}{}
	return unique
}
