// Package output renders generated sidebars as JSON, YAML, XML, or a raw text tree.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/temirov/apisidebar/internal/sidebar"
	"github.com/temirov/apisidebar/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2

	xmlHeader = xml.Header

	rawRootLabel       = "Sidebar"
	rawCategoryFormat  = "[Category] %s"
	rawLinkFormat      = "[Link] %s -> %s"
	rawDeprecatedLabel = " [deprecated]"
	rawEmptyMarker     = "(empty)"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	invalidFormatMessage = "Invalid format value '%s'"
)

// IsSupportedFormat reports whether the provided format is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatYAML, types.FormatXML:
		return true
	default:
		return false
	}
}

// Render writes the sidebar to writer in the requested format.
func Render(writer io.Writer, format string, generated types.Sidebar, includeSummary bool) error {
	var rendered string
	var renderError error
	switch strings.ToLower(format) {
	case types.FormatJSON:
		rendered, renderError = RenderJSON(generated)
	case types.FormatYAML:
		rendered, renderError = RenderYAML(generated)
	case types.FormatXML:
		rendered, renderError = RenderXML(generated)
	case types.FormatRaw:
		WriteRaw(writer, generated, includeSummary)
		return nil
	default:
		return fmt.Errorf(invalidFormatMessage, format)
	}
	if renderError != nil {
		return renderError
	}
	_, writeError := fmt.Fprintln(writer, strings.TrimRight(rendered, "\n"))
	return writeError
}

// RenderString renders the sidebar in the requested format and returns it as text.
func RenderString(format string, generated types.Sidebar, includeSummary bool) (string, error) {
	var buffer bytes.Buffer
	if renderError := Render(&buffer, format, generated, includeSummary); renderError != nil {
		return "", renderError
	}
	return buffer.String(), nil
}

// RenderJSON marshals the sidebar as an indented JSON array.
func RenderJSON(generated types.Sidebar) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(normalize(generated), indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderYAML marshals the sidebar as a YAML sequence.
func RenderYAML(generated types.Sidebar) (string, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if encodeError := encoder.Encode(normalize(generated)); encodeError != nil {
		return "", encodeError
	}
	if closeError := encoder.Close(); closeError != nil {
		return "", closeError
	}
	return buffer.String(), nil
}

// RenderXML marshals the sidebar as an XML document rooted at <sidebar>.
func RenderXML(generated types.Sidebar) (string, error) {
	wrapper := struct {
		XMLName xml.Name      `xml:"sidebar"`
		Items   types.Sidebar `xml:"item"`
	}{Items: generated}
	encoded, xmlMarshalError := xml.MarshalIndent(wrapper, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

// WriteRaw renders the sidebar as a text tree. Styling is applied only when writer is a terminal.
func WriteRaw(writer io.Writer, generated types.Sidebar, includeSummary bool) {
	renderer := lipgloss.NewRenderer(writer)
	styles := rawStyles{
		root:       renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("160")),
		category:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		link:       renderer.NewStyle(),
		deprecated: renderer.NewStyle().Foreground(lipgloss.Color("240")),
		dim:        renderer.NewStyle().Foreground(lipgloss.Color("240")),
	}

	fmt.Fprintln(writer, styles.root.Render(rawRootLabel))
	if len(generated) == 0 {
		fmt.Fprintln(writer, treeLastConnector+styles.dim.Render(rawEmptyMarker))
	}
	for index, item := range generated {
		renderItem(writer, styles, item, "", index == len(generated)-1)
	}
	if includeSummary {
		fmt.Fprintln(writer, styles.dim.Render(FormatSummaryLine(sidebar.Summarize(generated))))
	}
}

type rawStyles struct {
	root       lipgloss.Style
	category   lipgloss.Style
	link       lipgloss.Style
	deprecated lipgloss.Style
	dim        lipgloss.Style
}

func treeNodeLinePrefix(prefix string, isLast bool) (string, string) {
	if isLast {
		return prefix + treeLastConnector, prefix + treeLastPadding
	}
	return prefix + treeBranchConnector, prefix + treeBranchPadding
}

func renderItem(writer io.Writer, styles rawStyles, item types.SidebarItem, prefix string, isLast bool) {
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isLast)
	switch node := item.(type) {
	case *types.SidebarLink:
		line := fmt.Sprintf(rawLinkFormat, node.Label, node.Href)
		if node.ClassName == types.DeprecatedClassName {
			fmt.Fprintln(writer, linePrefix+styles.deprecated.Render(line+rawDeprecatedLabel))
			return
		}
		fmt.Fprintln(writer, linePrefix+styles.link.Render(line))
	case *types.SidebarCategory:
		fmt.Fprintln(writer, linePrefix+styles.category.Render(fmt.Sprintf(rawCategoryFormat, node.Label)))
		for index, child := range node.Items {
			renderItem(writer, styles, child, childPrefix, index == len(node.Items)-1)
		}
	}
}

// FormatSummaryLine formats sidebar counts into the raw summary line.
func FormatSummaryLine(summary sidebar.Summary) string {
	categoryLabel := "categories"
	if summary.Categories == 1 {
		categoryLabel = "category"
	}
	linkLabel := "links"
	if summary.Links == 1 {
		linkLabel = "link"
	}
	deprecated := ""
	if summary.Deprecated > 0 {
		deprecated = fmt.Sprintf(" (%d deprecated)", summary.Deprecated)
	}
	return fmt.Sprintf("Summary: %d %s, %d %s%s, depth %d", summary.Categories, categoryLabel, summary.Links, linkLabel, deprecated, summary.MaxDepth)
}

func normalize(generated types.Sidebar) types.Sidebar {
	if generated == nil {
		return types.Sidebar{}
	}
	return generated
}
