package api

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/tagsmith/pkg/engine"
	"github.com/hazyhaar/tagsmith/pkg/kit"
	"github.com/hazyhaar/tagsmith/pkg/tagdict"
	"github.com/hazyhaar/tagsmith/pkg/tags"
)

// RegisterMCPTools registers the Tagsmith MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, eng *engine.Engine, reg *tagdict.Registry) {
	registerTranslate(srv, eng)
	registerValidate(srv, eng)
	registerSuggest(srv, eng)
	registerExplain(srv, eng)
	registerTagDoc(srv, reg)
	registerDictInfo(srv, reg)
}

func registerTranslate(srv *server.MCPServer, eng *engine.Engine) {
	tool := mcp.NewTool("translate_tags",
		mcp.WithDescription("Translate a natural-language feature description (e.g. \"Italian restaurant with outdoor seating\") into validated OSM tags."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Free-text description of the map feature")),
		mcp.WithString("element_type", mcp.Description("OSM element type: node (default), way or relation")),
		mcp.WithObject("existing_tags", mcp.Description("Tags already on the element; they take priority over matched tags")),
		mcp.WithNumber("lat", mcp.Description("Latitude of the feature, for coordinate validation")),
		mcp.WithNumber("lon", mcp.Description("Longitude of the feature, for coordinate validation")),
		mcp.WithNumber("max_suggestions", mcp.Description("Maximum number of co-tag suggestions (default 5)")),
	)

	kit.RegisterMCPTool(srv, tool, translateEndpoint(eng), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		r := &engine.Request{}
		r.Description, _ = args["description"].(string)
		r.ElementType, _ = args["element_type"].(string)
		if v, ok := args["existing_tags"]; ok {
			set, err := setFromArg(v)
			if err != nil {
				return nil, fmt.Errorf("existing_tags: %w", err)
			}
			r.ExistingTags = set
		}
		lat, latOK := args["lat"].(float64)
		lon, lonOK := args["lon"].(float64)
		if latOK || lonOK {
			if !latOK || !lonOK {
				return nil, fmt.Errorf("lat and lon must be given together")
			}
			r.Location = &engine.Coordinates{Lat: lat, Lon: lon}
		}
		if v, ok := args["max_suggestions"].(float64); ok {
			r.MaxSuggestions = int(v)
		}
		return &kit.MCPDecodeResult{Request: r}, nil
	})
}

func registerValidate(srv *server.MCPServer, eng *engine.Engine) {
	tool := mcp.NewTool("validate_tags",
		mcp.WithDescription("Validate an OSM tag set: key format, deprecated tags, conflicting primary features, coordinate ranges, value formats."),
		mcp.WithObject("tags", mcp.Required(), mcp.Description("Tag set to validate, as a key/value object")),
		mcp.WithNumber("lat", mcp.Description("Latitude to range-check")),
		mcp.WithNumber("lon", mcp.Description("Longitude to range-check")),
	)

	kit.RegisterMCPTool(srv, tool, validateEndpoint(eng), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		set, err := setFromArg(args["tags"])
		if err != nil {
			return nil, fmt.Errorf("tags: %w", err)
		}
		r := &validateReq{Tags: set}
		lat, latOK := args["lat"].(float64)
		lon, lonOK := args["lon"].(float64)
		if latOK && lonOK {
			r.Location = &engine.Coordinates{Lat: lat, Lon: lon}
		}
		return &kit.MCPDecodeResult{Request: r}, nil
	})
}

func registerSuggest(srv *server.MCPServer, eng *engine.Engine) {
	tool := mcp.NewTool("suggest_tags",
		mcp.WithDescription("Suggest complementary OSM tags for an existing tag set (e.g. cuisine and opening_hours for a restaurant)."),
		mcp.WithObject("tags", mcp.Required(), mcp.Description("Existing tag set, as a key/value object")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of suggestions (default 5)")),
	)

	kit.RegisterMCPTool(srv, tool, suggestEndpoint(eng), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		set, err := setFromArg(args["tags"])
		if err != nil {
			return nil, fmt.Errorf("tags: %w", err)
		}
		r := &suggestReq{Tags: set}
		if v, ok := args["limit"].(float64); ok {
			r.Limit = int(v)
		}
		return &kit.MCPDecodeResult{Request: r}, nil
	})
}

func registerExplain(srv *server.MCPServer, eng *engine.Engine) {
	tool := mcp.NewTool("explain_tags",
		mcp.WithDescription("Render an OSM tag set as a human-readable description."),
		mcp.WithObject("tags", mcp.Required(), mcp.Description("Tag set to explain, as a key/value object")),
	)

	kit.RegisterMCPTool(srv, tool, explainEndpoint(eng), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		set, err := setFromArg(req.GetArguments()["tags"])
		if err != nil {
			return nil, fmt.Errorf("tags: %w", err)
		}
		return &kit.MCPDecodeResult{Request: &explainReq{Tags: set}}, nil
	})
}

func registerTagDoc(srv *server.MCPServer, reg *tagdict.Registry) {
	tool := mcp.NewTool("get_tag_documentation",
		mcp.WithDescription("Look up the documentation for an OSM tag key: description, wiki link and common values."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Tag key, e.g. amenity")),
	)

	kit.RegisterMCPTool(srv, tool, tagDocEndpoint(reg), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		key, _ := req.GetArguments()["key"].(string)
		if key == "" {
			return nil, fmt.Errorf("key is required")
		}
		return &kit.MCPDecodeResult{Request: &tagDocReq{Key: key}}, nil
	})
}

func registerDictInfo(srv *server.MCPServer, reg *tagdict.Registry) {
	tool := mcp.NewTool("dictionary_info",
		mcp.WithDescription("List the loaded tag dictionaries with version, source, license and rule counts."),
	)

	kit.RegisterMCPTool(srv, tool, dictInfoEndpoint(reg), func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})
}

// setFromArg converts an MCP object argument into a tag set. Keys are
// inserted in sorted order so results do not depend on JSON map iteration.
func setFromArg(v any) (*tags.Set, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a key/value object")
	}
	m := make(map[string]string, len(obj))
	for k, raw := range obj {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("value for %q is not a string", k)
		}
		m[k] = s
	}
	return tags.FromMap(m), nil
}
