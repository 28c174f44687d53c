// Package sidebar builds navigation sidebars from API documentation page descriptors.
//
// The transformation is pure: GenerateSidebars groups descriptors by source file and by
// tag, then nests the per-file sections into a folder tree when more than one source file
// is present. Loading descriptors and rendering the result happen elsewhere.
package sidebar

// Options control the collapse behavior of every generated category.
type Options struct {
	// SidebarCollapsible makes generated categories collapsible.
	SidebarCollapsible bool
	// SidebarCollapsed renders generated categories collapsed initially.
	SidebarCollapsed bool
}

// DefaultOptions returns collapsible, initially collapsed categories.
func DefaultOptions() Options {
	return Options{
		SidebarCollapsible: true,
		SidebarCollapsed:   true,
	}
}
