package sidebar

import (
	"slices"

	"github.com/temirov/apisidebar/internal/types"
)

// UntaggedCategoryLabel labels the catch-all category of operations without tags.
const UntaggedCategoryLabel = "API"

// GroupByTags builds the sidebar items for the descriptors of a single source file:
// intro links first, then one category per tag in first-seen order, then the untagged
// catch-all category. Tag categories without links are dropped; the catch-all never is.
func GroupByTags(descriptors []types.PageDescriptor, options Options) types.Sidebar {
	var intros types.Sidebar
	var operations []types.PageDescriptor
	for _, descriptor := range descriptors {
		switch descriptor.Type {
		case types.DescriptorTypeInfo:
			intros = append(intros, types.NewLink(descriptor.Title, descriptor.Permalink, descriptor.ID, ""))
		case types.DescriptorTypeAPI:
			operations = append(operations, descriptor)
		}
	}

	result := make(types.Sidebar, 0, len(intros)+1)
	result = append(result, intros...)

	for _, tag := range collectTags(operations) {
		var links types.Sidebar
		for _, operation := range operations {
			if slices.Contains(operation.Tags(), tag) {
				links = append(links, operationLink(operation))
			}
		}
		if len(links) == 0 {
			continue
		}
		result = append(result, types.NewCategory(tag, options.SidebarCollapsible, options.SidebarCollapsed, links))
	}

	var untagged types.Sidebar
	for _, operation := range operations {
		if len(operation.Tags()) == 0 {
			untagged = append(untagged, operationLink(operation))
		}
	}
	result = append(result, types.NewCategory(UntaggedCategoryLabel, options.SidebarCollapsible, options.SidebarCollapsed, untagged))

	return result
}

// collectTags returns the distinct non-empty tags of the operations in first-occurrence order.
func collectTags(operations []types.PageDescriptor) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, operation := range operations {
		for _, tag := range operation.Tags() {
			if tag == "" {
				continue
			}
			if _, duplicate := seen[tag]; duplicate {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

func operationLink(operation types.PageDescriptor) *types.SidebarLink {
	className := ""
	if operation.Deprecated() {
		className = types.DeprecatedClassName
	}
	return types.NewLink(operation.Title, operation.Permalink, operation.ID, className)
}
