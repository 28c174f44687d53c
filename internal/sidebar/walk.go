package sidebar

import "github.com/temirov/apisidebar/internal/types"

// Summary holds aggregate counts for a sidebar.
type Summary struct {
	Categories int `json:"categories" yaml:"categories" xml:"categories"`
	Links      int `json:"links" yaml:"links" xml:"links"`
	Deprecated int `json:"deprecated" yaml:"deprecated" xml:"deprecated"`
	MaxDepth   int `json:"maxDepth" yaml:"maxDepth" xml:"maxDepth"`
}

// Walk visits every node depth-first in sidebar order. Top-level nodes have depth 1.
func Walk(sidebar types.Sidebar, visit func(item types.SidebarItem, depth int)) {
	var walk func(types.Sidebar, int)
	walk = func(items types.Sidebar, depth int) {
		for _, item := range items {
			visit(item, depth)
			if category, isCategory := item.(*types.SidebarCategory); isCategory {
				walk(category.Items, depth+1)
			}
		}
	}
	walk(sidebar, 1)
}

// Summarize counts the categories, links, and deprecated links of a sidebar.
func Summarize(sidebar types.Sidebar) Summary {
	var summary Summary
	Walk(sidebar, func(item types.SidebarItem, depth int) {
		if depth > summary.MaxDepth {
			summary.MaxDepth = depth
		}
		switch node := item.(type) {
		case *types.SidebarCategory:
			summary.Categories++
		case *types.SidebarLink:
			summary.Links++
			if node.ClassName == types.DeprecatedClassName {
				summary.Deprecated++
			}
		}
	})
	return summary
}
