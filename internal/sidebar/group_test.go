package sidebar

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/apisidebar/internal/types"
)

func apiDescriptor(title string, source string, sourceDirName string, documentTitle string, tags ...string) types.PageDescriptor {
	return types.PageDescriptor{
		Type:          types.DescriptorTypeAPI,
		Title:         title,
		Permalink:     "/api/" + title,
		ID:            title,
		Source:        source,
		SourceDirName: sourceDirName,
		API: &types.APIMetadata{
			Info: &types.APIInfo{Title: documentTitle},
			Tags: tags,
		},
	}
}

func infoDescriptor(title string, source string, sourceDirName string) types.PageDescriptor {
	return types.PageDescriptor{
		Type:          types.DescriptorTypeInfo,
		Title:         title,
		Permalink:     "/api/" + title,
		ID:            title,
		Source:        source,
		SourceDirName: sourceDirName,
	}
}

func labels(items types.Sidebar) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		result = append(result, item.ItemLabel())
	}
	return result
}

func categoryAt(t *testing.T, items types.Sidebar, index int) *types.SidebarCategory {
	t.Helper()
	require.Greater(t, len(items), index)
	category, isCategory := items[index].(*types.SidebarCategory)
	require.True(t, isCategory, "item %d is %T", index, items[index])
	return category
}

func TestGroupByTagsOrdersCategoriesByFirstOccurrence(t *testing.T) {
	descriptors := []types.PageDescriptor{
		apiDescriptor("first", "pets.yaml", ".", "Pets", "a", "b"),
		apiDescriptor("second", "pets.yaml", ".", "Pets", "b"),
	}

	grouped := GroupByTags(descriptors, DefaultOptions())

	assert.Equal(t, []string{"a", "b", UntaggedCategoryLabel}, labels(grouped))
	assert.Equal(t, []string{"first"}, labels(categoryAt(t, grouped, 0).Items))
	assert.Equal(t, []string{"first", "second"}, labels(categoryAt(t, grouped, 1).Items))
	assert.Empty(t, categoryAt(t, grouped, 2).Items)
}

// TestGroupByTagsPlacesUntaggedOperationsInCatchAll verifies the trailing catch-all category.
func TestGroupByTagsPlacesUntaggedOperationsInCatchAll(testingHandle *testing.T) {
	testCases := []struct {
		name             string
		descriptors      []types.PageDescriptor
		expectedLabels   []string
		expectedCatchAll []string
	}{
		{
			name: "UntaggedOnly",
			descriptors: []types.PageDescriptor{
				apiDescriptor("plain", "pets.yaml", ".", "Pets"),
			},
			expectedLabels:   []string{UntaggedCategoryLabel},
			expectedCatchAll: []string{"plain"},
		},
		{
			name: "Mixed",
			descriptors: []types.PageDescriptor{
				apiDescriptor("tagged", "pets.yaml", ".", "Pets", "pets"),
				apiDescriptor("plain", "pets.yaml", ".", "Pets"),
			},
			expectedLabels:   []string{"pets", UntaggedCategoryLabel},
			expectedCatchAll: []string{"plain"},
		},
		{
			name: "CatchAllKeptWhenEverythingIsTagged",
			descriptors: []types.PageDescriptor{
				apiDescriptor("tagged", "pets.yaml", ".", "Pets", "pets"),
			},
			expectedLabels:   []string{"pets", UntaggedCategoryLabel},
			expectedCatchAll: []string{},
		},
		{
			name: "EmptyTagStringsNeverFormCategories",
			descriptors: []types.PageDescriptor{
				apiDescriptor("blank", "pets.yaml", ".", "Pets", ""),
			},
			expectedLabels:   []string{UntaggedCategoryLabel},
			expectedCatchAll: []string{},
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(t *testing.T) {
			grouped := GroupByTags(testCase.descriptors, DefaultOptions())
			groupedLabels := labels(grouped)
			if !reflect.DeepEqual(groupedLabels, testCase.expectedLabels) {
				t.Fatalf("expected categories %v, got %v", testCase.expectedLabels, groupedLabels)
			}
			catchAll := categoryAt(t, grouped, len(grouped)-1)
			catchAllLabels := labels(catchAll.Items)
			if !reflect.DeepEqual(catchAllLabels, testCase.expectedCatchAll) {
				t.Errorf("expected catch-all items %v, got %v", testCase.expectedCatchAll, catchAllLabels)
			}
		})
	}
}

func TestGroupByTagsEmitsIntroLinksFirst(t *testing.T) {
	descriptors := []types.PageDescriptor{
		apiDescriptor("list", "pets.yaml", ".", "Pets", "pets"),
		infoDescriptor("Petstore", "pets.yaml", "."),
	}

	grouped := GroupByTags(descriptors, Options{SidebarCollapsible: false, SidebarCollapsed: false})

	require.Len(t, grouped, 3)
	intro, isLink := grouped[0].(*types.SidebarLink)
	require.True(t, isLink)
	assert.Equal(t, &types.SidebarLink{Type: types.ItemTypeLink, Label: "Petstore", Href: "/api/Petstore", DocID: "Petstore"}, intro)
	for _, item := range grouped[1:] {
		category := item.(*types.SidebarCategory)
		assert.False(t, category.Collapsible)
		assert.False(t, category.Collapsed)
	}
}

func TestGroupByTagsMarksDeprecatedOperations(t *testing.T) {
	deprecated := apiDescriptor("old", "pets.yaml", ".", "Pets")
	deprecated.API.Deprecated = true
	current := apiDescriptor("new", "pets.yaml", ".", "Pets")

	grouped := GroupByTags([]types.PageDescriptor{deprecated, current}, DefaultOptions())

	catchAll := categoryAt(t, grouped, 0)
	require.Len(t, catchAll.Items, 2)
	assert.Equal(t, types.DeprecatedClassName, catchAll.Items[0].(*types.SidebarLink).ClassName)
	assert.Empty(t, catchAll.Items[1].(*types.SidebarLink).ClassName)
}

func TestGroupByTagsHandlesEmptyInput(t *testing.T) {
	grouped := GroupByTags(nil, DefaultOptions())
	assert.Equal(t, []string{UntaggedCategoryLabel}, labels(grouped))
}
