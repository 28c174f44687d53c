package output_test

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/temirov/apisidebar/internal/output"
	"github.com/temirov/apisidebar/internal/sidebar"
	"github.com/temirov/apisidebar/internal/types"
)

// rawSidebarExpected defines the expected raw rendering of sampleSidebar with a summary.
const rawSidebarExpected = "Sidebar\n" +
	"├── [Link] Petstore -> /api/pets\n" +
	"├── [Category] pets\n" +
	"│   ├── [Link] List pets -> /api/pets/list-pets\n" +
	"│   └── [Link] Feed pets -> /api/pets/feed-pets [deprecated]\n" +
	"└── [Category] API\n" +
	"Summary: 2 categories, 3 links (1 deprecated), depth 2\n"

func sampleSidebar() types.Sidebar {
	return types.Sidebar{
		types.NewLink("Petstore", "/api/pets", "pets", ""),
		types.NewCategory("pets", true, false, types.Sidebar{
			types.NewLink("List pets", "/api/pets/list-pets", "pets/list-pets", ""),
			types.NewLink("Feed pets", "/api/pets/feed-pets", "pets/feed-pets", types.DeprecatedClassName),
		}),
		types.NewCategory("API", true, false, nil),
	}
}

// TestWriteRaw verifies the raw tree rendering.
func TestWriteRaw(testingInstance *testing.T) {
	var buffer bytes.Buffer
	output.WriteRaw(&buffer, sampleSidebar(), true)
	if buffer.String() != rawSidebarExpected {
		testingInstance.Fatalf("unexpected raw output:\n%s\nwant:\n%s", buffer.String(), rawSidebarExpected)
	}

	buffer.Reset()
	output.WriteRaw(&buffer, types.Sidebar{}, false)
	if buffer.String() != "Sidebar\n└── (empty)\n" {
		testingInstance.Fatalf("unexpected empty raw output: %q", buffer.String())
	}
}

// TestRenderJSON verifies the JSON document shape.
func TestRenderJSON(testingInstance *testing.T) {
	rendered, renderError := output.RenderJSON(sampleSidebar())
	if renderError != nil {
		testingInstance.Fatalf("RenderJSON error: %v", renderError)
	}
	var decoded []map[string]any
	if decodeError := json.Unmarshal([]byte(rendered), &decoded); decodeError != nil {
		testingInstance.Fatalf("invalid JSON: %v", decodeError)
	}
	if len(decoded) != 3 {
		testingInstance.Fatalf("expected 3 top-level items, got %d", len(decoded))
	}
	if decoded[0]["type"] != "link" || decoded[0]["docId"] != "pets" {
		testingInstance.Fatalf("unexpected intro link: %v", decoded[0])
	}
	if _, hasClassName := decoded[0]["className"]; hasClassName {
		testingInstance.Fatalf("className must be omitted when empty")
	}
	if decoded[1]["collapsed"] != false || decoded[1]["collapsible"] != true {
		testingInstance.Fatalf("unexpected category flags: %v", decoded[1])
	}
	catchAllItems, isList := decoded[2]["items"].([]any)
	if !isList || len(catchAllItems) != 0 {
		testingInstance.Fatalf("expected empty items array, got %v", decoded[2]["items"])
	}
	if strings.Contains(rendered, "Directory") {
		testingInstance.Fatalf("directory must not be serialized")
	}

	empty, emptyError := output.RenderJSON(nil)
	if emptyError != nil || empty != "[]" {
		testingInstance.Fatalf("expected [] for a nil sidebar, got %q (%v)", empty, emptyError)
	}
}

// TestRenderYAML verifies the YAML document shape.
func TestRenderYAML(testingInstance *testing.T) {
	rendered, renderError := output.RenderYAML(sampleSidebar())
	if renderError != nil {
		testingInstance.Fatalf("RenderYAML error: %v", renderError)
	}
	var decoded []map[string]any
	if decodeError := yaml.Unmarshal([]byte(rendered), &decoded); decodeError != nil {
		testingInstance.Fatalf("invalid YAML: %v", decodeError)
	}
	if len(decoded) != 3 || decoded[1]["label"] != "pets" {
		testingInstance.Fatalf("unexpected YAML document: %v", decoded)
	}
	nested := decoded[1]["items"].([]any)
	deprecated := nested[1].(map[string]any)
	if deprecated["className"] != types.DeprecatedClassName {
		testingInstance.Fatalf("expected deprecated className, got %v", deprecated["className"])
	}
}

// TestRenderXML verifies the XML document shape.
func TestRenderXML(testingInstance *testing.T) {
	rendered, renderError := output.RenderXML(sampleSidebar())
	if renderError != nil {
		testingInstance.Fatalf("RenderXML error: %v", renderError)
	}
	if !strings.HasPrefix(rendered, xml.Header) {
		testingInstance.Fatalf("missing XML header: %s", rendered)
	}
	for _, fragment := range []string{"<sidebar>", "<link>", "<category>", "<label>pets</label>", "<items>", "<className>menu__list-item--deprecated</className>"} {
		if !strings.Contains(rendered, fragment) {
			testingInstance.Fatalf("expected %s in XML output:\n%s", fragment, rendered)
		}
	}
	decoder := xml.NewDecoder(strings.NewReader(rendered))
	for {
		_, tokenError := decoder.Token()
		if tokenError != nil {
			if !errors.Is(tokenError, io.EOF) {
				testingInstance.Fatalf("malformed XML: %v", tokenError)
			}
			break
		}
	}
}

// TestRender verifies format dispatch.
func TestRender(testingInstance *testing.T) {
	testCases := []struct {
		name          string
		format        string
		expectPrefix  string
		expectFailure bool
	}{
		{name: "json", format: types.FormatJSON, expectPrefix: "["},
		{name: "uppercase json", format: "JSON", expectPrefix: "["},
		{name: "yaml", format: types.FormatYAML, expectPrefix: "- type: link"},
		{name: "xml", format: types.FormatXML, expectPrefix: "<?xml"},
		{name: "raw", format: types.FormatRaw, expectPrefix: "Sidebar"},
		{name: "unknown", format: "toon", expectFailure: true},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(subTest *testing.T) {
			rendered, renderError := output.RenderString(testCase.format, sampleSidebar(), false)
			if testCase.expectFailure {
				if renderError == nil || renderError.Error() != "Invalid format value 'toon'" {
					subTest.Fatalf("expected invalid format error, got %v", renderError)
				}
				return
			}
			if renderError != nil {
				subTest.Fatalf("RenderString error: %v", renderError)
			}
			if !strings.HasPrefix(rendered, testCase.expectPrefix) {
				subTest.Fatalf("expected prefix %q, got %q", testCase.expectPrefix, rendered)
			}
			if !strings.HasSuffix(rendered, "\n") || strings.HasSuffix(rendered, "\n\n") {
				subTest.Fatalf("expected exactly one trailing newline: %q", rendered)
			}
		})
	}
}

// TestFormatSummaryLine verifies pluralization.
func TestFormatSummaryLine(testingInstance *testing.T) {
	testCases := []struct {
		summary  sidebar.Summary
		expected string
	}{
		{summary: sidebar.Summary{}, expected: "Summary: 0 categories, 0 links, depth 0"},
		{summary: sidebar.Summary{Categories: 1, Links: 1, MaxDepth: 2}, expected: "Summary: 1 category, 1 link, depth 2"},
		{summary: sidebar.Summary{Categories: 4, Links: 7, Deprecated: 2, MaxDepth: 3}, expected: "Summary: 4 categories, 7 links (2 deprecated), depth 3"},
	}
	for _, testCase := range testCases {
		if actual := output.FormatSummaryLine(testCase.summary); actual != testCase.expected {
			testingInstance.Fatalf("expected %q, got %q", testCase.expected, actual)
		}
	}
}
