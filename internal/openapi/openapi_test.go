package openapi

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/apisidebar/internal/types"
)

const petstoreDocument = `openapi: 3.0.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets/{id}:
    delete:
      operationId: deletePet
      tags: [pets]
      responses:
        "204":
          description: deleted
    get:
      summary: Show pet
      tags: [pets]
      responses:
        "200":
          description: ok
  /pets:
    post:
      summary: Create pet
      deprecated: true
      tags: [pets, admin]
      responses:
        "201":
          description: created
    get:
      responses:
        "200":
          description: ok
`

const ordersDocument = `{
  "openapi": "3.0.0",
  "info": {"title": "", "version": "1.0.0"},
  "paths": {
    "/orders": {
      "get": {"summary": "List orders", "responses": {"200": {"description": "ok"}}},
      "put": {"summary": "List orders", "responses": {"200": {"description": "ok"}}},
      "post": {"summary": "List orders 2", "responses": {"200": {"description": "ok"}}}
    }
  }
}`

func loadDocument(t *testing.T, content string) *openapi3.T {
	t.Helper()
	document, err := openapi3.NewLoader().LoadFromData([]byte(content))
	require.NoError(t, err)
	return document
}

func titles(descriptors []types.PageDescriptor) []string {
	result := make([]string, 0, len(descriptors))
	for _, descriptor := range descriptors {
		result = append(result, descriptor.Title)
	}
	return result
}

func TestDocumentDescriptorsOrdersOperations(t *testing.T) {
	descriptors := DocumentDescriptors(loadDocument(t, petstoreDocument), "@site/api", "petstore.yaml", Options{})

	assert.Equal(t, []string{"Petstore", "GET /pets", "Create pet", "Show pet", "deletePet"}, titles(descriptors))

	intro := descriptors[0]
	assert.Equal(t, types.PageDescriptor{
		Type:          types.DescriptorTypeInfo,
		Title:         "Petstore",
		Permalink:     "/api/petstore",
		ID:            "petstore",
		Source:        "@site/api/petstore.yaml",
		SourceDirName: ".",
	}, intro)

	created := descriptors[2]
	assert.Equal(t, "petstore/create-pet", created.ID)
	assert.Equal(t, "/api/petstore/create-pet", created.Permalink)
	assert.Equal(t, []string{"pets", "admin"}, created.Tags())
	assert.True(t, created.Deprecated())
	assert.Equal(t, "Petstore", created.API.Info.Title)

	listed := descriptors[1]
	assert.Equal(t, "petstore/get-pets", listed.ID)
	assert.Empty(t, listed.Tags())

	assert.Equal(t, "petstore/delete-pet", descriptors[4].ID)
}

func TestDocumentDescriptorsDisambiguatesAndFallsBack(t *testing.T) {
	descriptors := DocumentDescriptors(loadDocument(t, ordersDocument), "@docs/reference", "store/orders.json",
		Options{RouteBasePath: "reference", SourcePrefix: "@docs"})

	require.Len(t, descriptors, 4)
	assert.Equal(t, "orders", descriptors[0].Title)
	assert.Equal(t, "store", descriptors[0].SourceDirName)
	assert.Equal(t, "@docs/reference/store/orders.json", descriptors[0].Source)
	assert.Equal(t, "/reference/store/orders", descriptors[0].Permalink)
	assert.Equal(t, "store/orders/list-orders", descriptors[1].ID)
	assert.Equal(t, "store/orders/list-orders-2", descriptors[2].ID)
	assert.Equal(t, "store/orders/list-orders-2-2", descriptors[3].ID)
	assert.Equal(t, "/reference/store/orders/list-orders-2-2", descriptors[3].Permalink)
	assert.Equal(t, "", descriptors[1].API.Info.Title)
}

func TestLoadDescriptorsDiscoversDocuments(t *testing.T) {
	root := filepath.Join(t.TempDir(), "api")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "store"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "petstore.yaml"), []byte(petstoreDocument), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "store", "orders.json"), []byte(ordersDocument), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "store", "_category_.yml"), []byte("label: Store\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".cache", "stale.yaml"), []byte("not: openapi\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# API\n"), 0o644))

	discovered, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "petstore.yaml"), filepath.Join(root, "store", "orders.json")}, discovered)

	descriptors, err := LoadDescriptors(context.Background(), root, Options{})
	require.NoError(t, err)
	require.Len(t, descriptors, 9)
	assert.Equal(t, "@site/api/petstore.yaml", descriptors[0].Source)
	assert.Equal(t, "@site/api/store/orders.json", descriptors[5].Source)
	assert.Equal(t, "store", descriptors[5].SourceDirName)
}

func TestLoadDescriptorsKeepsIDsUniqueAcrossDocuments(t *testing.T) {
	const parentDocument = `openapi: 3.0.0
info:
  title: Pets
  version: 1.0.0
paths:
  /x:
    get:
      summary: X
      responses:
        "200":
          description: ok
`
	const childDocument = `openapi: 3.0.0
info:
  title: Pet X
  version: 1.0.0
paths:
  /items:
    get:
      summary: Items
      responses:
        "200":
          description: ok
`
	root := filepath.Join(t.TempDir(), "api")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pets.yaml"), []byte(parentDocument), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pets", "x.yaml"), []byte(childDocument), 0o644))

	descriptors, err := LoadDescriptors(context.Background(), root, Options{})
	require.NoError(t, err)

	identifiers := make([]string, 0, len(descriptors))
	permalinks := map[string]struct{}{}
	for _, descriptor := range descriptors {
		identifiers = append(identifiers, descriptor.ID)
		permalinks[descriptor.Permalink] = struct{}{}
	}
	assert.Equal(t, []string{"pets", "pets/x", "pets/x-2", "pets/x-2/items"}, identifiers)
	assert.Len(t, permalinks, len(descriptors))
}

func TestUniqueID(t *testing.T) {
	usedIDs := map[string]struct{}{}
	for _, testCase := range []struct {
		candidate string
		expected  string
	}{
		{candidate: "pets/foo", expected: "pets/foo"},
		{candidate: "pets/foo", expected: "pets/foo-2"},
		{candidate: "pets/foo-2", expected: "pets/foo-2-2"},
		{candidate: "pets/foo", expected: "pets/foo-3"},
	} {
		assert.Equal(t, testCase.expected, uniqueID(usedIDs, testCase.candidate), testCase.candidate)
	}
}

func TestLoadDescriptorsReportsBrokenDocuments(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.yaml"), []byte("openapi: [\n"), 0o644))

	_, err := LoadDescriptors(context.Background(), root, Options{})
	require.Error(t, err)

	_, err = LoadDescriptors(context.Background(), filepath.Join(root, "missing"), Options{})
	require.Error(t, err)
}

func TestSlugify(t *testing.T) {
	testCases := map[string]string{
		"List pets":      "list-pets",
		"GET /pets/{id}": "get-pets-id",
		"createPet":      "create-pet",
		"  spaced  out ": "spaced-out",
	}
	for input, expected := range testCases {
		assert.Equal(t, expected, slugify(input), input)
	}
}
