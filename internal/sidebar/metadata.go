package sidebar

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/temirov/apisidebar/internal/category"
	"github.com/temirov/apisidebar/internal/types"
)

const errorApplyMetadataFormat = "apply category metadata for %s: %w"

// MetadataLookup returns the category metadata of a directory, or nil when it has none.
type MetadataLookup func(directory string) (*category.Metadata, error)

// ApplyCategoryMetadata overlays _category_ metadata onto the folder categories of a
// generated sidebar. Directories are resolved relative to root. Folder siblings that
// declare a position are stably moved ahead of those that do not, ordered by position.
func ApplyCategoryMetadata(sidebar types.Sidebar, root string, lookup MetadataLookup) error {
	if lookup == nil {
		lookup = category.ReadMetadataFile
	}
	return applyMetadata(sidebar, root, lookup)
}

func applyMetadata(items types.Sidebar, root string, lookup MetadataLookup) error {
	positions := make(map[types.SidebarItem]float64)
	for _, item := range items {
		folder, isCategory := item.(*types.SidebarCategory)
		if !isCategory {
			continue
		}
		if folder.Directory != "" {
			metadata, lookupError := lookup(filepath.Join(root, filepath.FromSlash(folder.Directory)))
			if lookupError != nil {
				return fmt.Errorf(errorApplyMetadataFormat, folder.Directory, lookupError)
			}
			if metadata != nil {
				overlayMetadata(folder, metadata)
				if metadata.Position != nil {
					positions[folder] = *metadata.Position
				}
			}
		}
		if childError := applyMetadata(folder.Items, root, lookup); childError != nil {
			return childError
		}
	}
	if len(positions) > 0 {
		sort.SliceStable(items, func(left, right int) bool {
			leftPosition, leftPositioned := positions[items[left]]
			rightPosition, rightPositioned := positions[items[right]]
			if leftPositioned && rightPositioned {
				return leftPosition < rightPosition
			}
			return leftPositioned && !rightPositioned
		})
	}
	return nil
}

func overlayMetadata(folder *types.SidebarCategory, metadata *category.Metadata) {
	if metadata.Label != "" {
		folder.Label = metadata.Label
	}
	if metadata.Collapsible != nil {
		folder.Collapsible = *metadata.Collapsible
	}
	if metadata.Collapsed != nil {
		folder.Collapsed = *metadata.Collapsed
	}
	if metadata.ClassName != "" {
		folder.ClassName = metadata.ClassName
	}
}
