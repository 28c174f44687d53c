package sidebar

import (
	"path"
	"strings"

	"github.com/temirov/apisidebar/internal/types"
)

const (
	// RootDirectoryName is the sourceDirName of documents at the docs root.
	RootDirectoryName = "."

	directorySeparator = "/"
)

// section is the category generated for the descriptors of one source file.
type section struct {
	directory string
	category  *types.SidebarCategory
}

// GenerateSidebars builds the complete sidebar for descriptors that may come from several
// source files. A single source file yields its grouped items without an enclosing category.
// Otherwise sections at the docs root come first, followed by a folder tree that mirrors the
// directories of the remaining sections.
func GenerateSidebars(descriptors []types.PageDescriptor, options Options) types.Sidebar {
	sources, descriptorsBySource := partitionBySource(descriptors)
	if len(sources) == 0 {
		return types.Sidebar{}
	}

	sections := make([]section, 0, len(sources))
	for _, source := range sources {
		sections = append(sections, buildSection(source, descriptorsBySource[source], options))
	}

	if len(sections) == 1 {
		return sections[0].category.Items
	}

	var rootSections types.Sidebar
	var childSections []section
	for _, current := range sections {
		if current.directory == RootDirectoryName {
			rootSections = append(rootSections, current.category)
			continue
		}
		childSections = append(childSections, current)
	}

	result := make(types.Sidebar, 0, len(sections))
	result = append(result, rootSections...)
	result = append(result, buildFolderTree(childSections, options)...)
	return result
}

// partitionBySource groups descriptors by source, returning the sources in first-seen order.
func partitionBySource(descriptors []types.PageDescriptor) ([]string, map[string][]types.PageDescriptor) {
	var sources []string
	descriptorsBySource := make(map[string][]types.PageDescriptor)
	for _, descriptor := range descriptors {
		if _, known := descriptorsBySource[descriptor.Source]; !known {
			sources = append(sources, descriptor.Source)
		}
		descriptorsBySource[descriptor.Source] = append(descriptorsBySource[descriptor.Source], descriptor)
	}
	return sources, descriptorsBySource
}

func buildSection(source string, descriptors []types.PageDescriptor, options Options) section {
	directory := RootDirectoryName
	label := sourceFileStem(source)

	for _, descriptor := range descriptors {
		if !descriptor.IsAPI() || descriptor.API == nil || descriptor.API.Info == nil {
			continue
		}
		if descriptor.SourceDirName != "" {
			directory = descriptor.SourceDirName
		}
		if descriptor.API.Info.Title != "" {
			label = descriptor.API.Info.Title
		}
		break
	}

	return section{
		directory: directory,
		category:  types.NewCategory(label, options.SidebarCollapsible, options.SidebarCollapsed, GroupByTags(descriptors, options)),
	}
}

// sourceFileStem returns the base name of source up to its first dot.
func sourceFileStem(source string) string {
	baseName := path.Base(strings.ReplaceAll(source, "\\", directorySeparator))
	if baseName == "." || baseName == directorySeparator {
		return ""
	}
	stem, _, _ := strings.Cut(baseName, ".")
	return stem
}

// buildFolderTree nests each section under categories named after its directory segments.
// Categories for the same segment at the same level are shared; the first one created wins.
func buildFolderTree(sections []section, options Options) types.Sidebar {
	tree := types.Sidebar{}
	for _, current := range sections {
		level := &tree
		var walked []string
		for _, segment := range strings.Split(current.directory, directorySeparator) {
			walked = append(walked, segment)
			folder := findCategory(*level, segment)
			if folder == nil {
				folder = types.NewCategory(segment, options.SidebarCollapsible, options.SidebarCollapsed, nil)
				folder.Directory = strings.Join(walked, directorySeparator)
				*level = append(*level, folder)
			}
			level = &folder.Items
		}
		*level = append(*level, current.category)
	}
	return tree
}

// findCategory returns the first category among siblings labeled label.
func findCategory(siblings types.Sidebar, label string) *types.SidebarCategory {
	for _, sibling := range siblings {
		category, isCategory := sibling.(*types.SidebarCategory)
		if isCategory && category.Label == label {
			return category
		}
	}
	return nil
}
