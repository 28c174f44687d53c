package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/temirov/apisidebar/internal/descriptors"
	"github.com/temirov/apisidebar/internal/output"
	"github.com/temirov/apisidebar/internal/sidebar"
	"github.com/temirov/apisidebar/internal/types"
)

const (
	// GenerateCapabilityDescription documents the generate command in /capabilities.
	GenerateCapabilityDescription = "Generate a sidebar tree from page descriptors"

	errorDecodeRequestFormat = "decode generate request: %w"
	errorInvalidDescriptor   = "descriptor %d: %w"
	errorUnsupportedFormat   = "unsupported format %q"
	errorRenderFormat        = "render sidebar: %w"
	errorMissingDescriptors  = "descriptors are required"
)

// GenerateRequest is the payload of POST /commands/generate.
type GenerateRequest struct {
	Descriptors []types.PageDescriptor `json:"descriptors"`
	Options     *GenerateOptions       `json:"options"`
	Format      string                 `json:"format"`
	Summary     bool                   `json:"summary"`
}

// GenerateOptions overrides the server's default sidebar options per request.
type GenerateOptions struct {
	SidebarCollapsible *bool `json:"sidebarCollapsible"`
	SidebarCollapsed   *bool `json:"sidebarCollapsed"`
}

// GenerateDefaults holds the values applied when a request omits them.
type GenerateDefaults struct {
	Options sidebar.Options
	Format  string
}

// NewGenerateExecutor returns the executor backing the generate command.
func NewGenerateExecutor(defaults GenerateDefaults) CommandExecutor {
	if defaults.Format == "" {
		defaults.Format = types.FormatJSON
	}
	return CommandExecutorFunc(func(_ context.Context, request CommandRequest) (CommandResponse, error) {
		var generateRequest GenerateRequest
		if decodeErr := json.Unmarshal(request.Payload, &generateRequest); decodeErr != nil {
			return CommandResponse{}, NewCommandExecutionError(http.StatusBadRequest, fmt.Errorf(errorDecodeRequestFormat, decodeErr))
		}
		if generateRequest.Descriptors == nil {
			return CommandResponse{}, NewCommandExecutionError(http.StatusBadRequest, errors.New(errorMissingDescriptors))
		}
		for index, descriptor := range generateRequest.Descriptors {
			if validateErr := descriptors.Validate(descriptor); validateErr != nil {
				return CommandResponse{}, NewCommandExecutionError(http.StatusBadRequest, fmt.Errorf(errorInvalidDescriptor, index, validateErr))
			}
		}

		format := strings.ToLower(generateRequest.Format)
		if format == "" {
			format = defaults.Format
		}
		if !output.IsSupportedFormat(format) {
			return CommandResponse{}, NewCommandExecutionError(http.StatusBadRequest, fmt.Errorf(errorUnsupportedFormat, generateRequest.Format))
		}

		options := defaults.Options
		if generateRequest.Options != nil {
			if generateRequest.Options.SidebarCollapsible != nil {
				options.SidebarCollapsible = *generateRequest.Options.SidebarCollapsible
			}
			if generateRequest.Options.SidebarCollapsed != nil {
				options.SidebarCollapsed = *generateRequest.Options.SidebarCollapsed
			}
		}

		generated := sidebar.GenerateSidebars(generateRequest.Descriptors, options)
		rendered, renderErr := output.RenderString(format, generated, generateRequest.Summary)
		if renderErr != nil {
			return CommandResponse{}, fmt.Errorf(errorRenderFormat, renderErr)
		}
		return CommandResponse{Output: rendered, Format: format}, nil
	})
}
