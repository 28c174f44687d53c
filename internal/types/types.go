// Package types defines every cross‑package data structure used by the apisidebar CLI.
package types

import "encoding/xml"

const (
	CommandGenerate = "generate"
	CommandServe    = "serve"
	CommandCategory = "category"
	CommandInit     = "init"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXML  = "xml"
)

// DescriptorType discriminates the variants of PageDescriptor.
type DescriptorType string

const (
	DescriptorTypeInfo DescriptorType = "info"
	DescriptorTypeAPI  DescriptorType = "api"
)

// ItemType discriminates the variants of SidebarItem.
type ItemType string

const (
	ItemTypeLink     ItemType = "link"
	ItemTypeCategory ItemType = "category"
)

// DeprecatedClassName marks links to deprecated operations.
const DeprecatedClassName = "menu__list-item--deprecated"

// APIInfo carries the document-level information of the OpenAPI document an operation came from.
type APIInfo struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// APIMetadata is the operation payload of an api descriptor.
type APIMetadata struct {
	Info       *APIInfo `json:"info,omitempty" yaml:"info,omitempty"`
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Deprecated bool     `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// PageDescriptor describes one documentation page: either an introductory info page or
// one API operation. Type is the discriminant; API is only meaningful for api descriptors.
type PageDescriptor struct {
	Type          DescriptorType `json:"type" yaml:"type"`
	Title         string         `json:"title" yaml:"title"`
	Permalink     string         `json:"permalink" yaml:"permalink"`
	ID            string         `json:"id" yaml:"id"`
	Source        string         `json:"source" yaml:"source"`
	SourceDirName string         `json:"sourceDirName" yaml:"sourceDirName"`
	API           *APIMetadata   `json:"api,omitempty" yaml:"api,omitempty"`
}

// IsInfo reports whether the descriptor is the info variant.
func (descriptor PageDescriptor) IsInfo() bool {
	return descriptor.Type == DescriptorTypeInfo
}

// IsAPI reports whether the descriptor is the api variant.
func (descriptor PageDescriptor) IsAPI() bool {
	return descriptor.Type == DescriptorTypeAPI
}

// Tags returns the operation tags of an api descriptor.
func (descriptor PageDescriptor) Tags() []string {
	if descriptor.API == nil {
		return nil
	}
	return descriptor.API.Tags
}

// Deprecated reports whether the descriptor documents a deprecated operation.
func (descriptor PageDescriptor) Deprecated() bool {
	return descriptor.API != nil && descriptor.API.Deprecated
}

// SidebarItem is one node of a generated sidebar. It is implemented only by
// *SidebarLink and *SidebarCategory.
type SidebarItem interface {
	ItemType() ItemType
	ItemLabel() string
}

// Sidebar is an ordered sequence of top-level sidebar nodes.
type Sidebar []SidebarItem

// SidebarLink is a leaf pointing at one documentation page.
type SidebarLink struct {
	XMLName   xml.Name `json:"-" yaml:"-" xml:"link"`
	Type      ItemType `json:"type" yaml:"type" xml:"type"`
	Label     string   `json:"label" yaml:"label" xml:"label"`
	Href      string   `json:"href" yaml:"href" xml:"href"`
	DocID     string   `json:"docId" yaml:"docId" xml:"docId"`
	ClassName string   `json:"className,omitempty" yaml:"className,omitempty" xml:"className,omitempty"`
}

// SidebarCategory is a named group of sidebar nodes.
type SidebarCategory struct {
	XMLName     xml.Name `json:"-" yaml:"-" xml:"category"`
	Type        ItemType `json:"type" yaml:"type" xml:"type"`
	Label       string   `json:"label" yaml:"label" xml:"label"`
	Collapsible bool     `json:"collapsible" yaml:"collapsible" xml:"collapsible"`
	Collapsed   bool     `json:"collapsed" yaml:"collapsed" xml:"collapsed"`
	ClassName   string   `json:"className,omitempty" yaml:"className,omitempty" xml:"className,omitempty"`
	Items       Sidebar  `json:"items" yaml:"items" xml:"items>item"`
	// Directory is the posix path a folder category was synthesized from.
	Directory string `json:"-" yaml:"-" xml:"-"`
}

// NewLink constructs a link node.
func NewLink(label, href, docID, className string) *SidebarLink {
	return &SidebarLink{
		Type:      ItemTypeLink,
		Label:     label,
		Href:      href,
		DocID:     docID,
		ClassName: className,
	}
}

// NewCategory constructs a category node. A nil items slice is normalized to an empty one
// so that empty categories serialize as [] rather than null.
func NewCategory(label string, collapsible, collapsed bool, items Sidebar) *SidebarCategory {
	if items == nil {
		items = Sidebar{}
	}
	return &SidebarCategory{
		Type:        ItemTypeCategory,
		Label:       label,
		Collapsible: collapsible,
		Collapsed:   collapsed,
		Items:       items,
	}
}

// ItemType returns ItemTypeLink.
func (link *SidebarLink) ItemType() ItemType { return ItemTypeLink }

// ItemLabel returns the link label.
func (link *SidebarLink) ItemLabel() string { return link.Label }

// ItemType returns ItemTypeCategory.
func (category *SidebarCategory) ItemType() ItemType { return ItemTypeCategory }

// ItemLabel returns the category label.
func (category *SidebarCategory) ItemLabel() string { return category.Label }

var (
	_ SidebarItem = (*SidebarLink)(nil)
	_ SidebarItem = (*SidebarCategory)(nil)
)
