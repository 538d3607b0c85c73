package api

import (
	"context"
	"fmt"

	"github.com/hazyhaar/tagsmith/pkg/engine"
	"github.com/hazyhaar/tagsmith/pkg/kit"
	"github.com/hazyhaar/tagsmith/pkg/tagdict"
	"github.com/hazyhaar/tagsmith/pkg/tags"
)

// Shared request/response types used by both HTTP and MCP transports.

type validateReq struct {
	Tags     *tags.Set
	Location *engine.Coordinates
}

type validateResponse struct {
	Issues        []engine.Issue `json:"issues"`
	OverallStatus string         `json:"overall_status"`
}

type suggestReq struct {
	Tags  *tags.Set
	Limit int
}

type suggestResponse struct {
	Suggestions []tagdict.Recommendation `json:"suggestions"`
}

type explainReq struct {
	Tags *tags.Set
}

type tagDocReq struct {
	Key string
}

type tagDocResponse struct {
	Key         string             `json:"key"`
	Description string             `json:"description"`
	Wiki        string             `json:"wiki,omitempty"`
	Values      []tagdict.ValueDoc `json:"values,omitempty"`
}

type dictInfoResponse struct {
	Sources      []tagdict.DictInfo `json:"sources"`
	Rules        int                `json:"rules"`
	Deprecations int                `json:"deprecations"`
}

// Endpoints returns the kit.Endpoints backing both transports.

func translateEndpoint(eng *engine.Engine) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*engine.Request)
		if req.Description == "" {
			return nil, fmt.Errorf("description is empty")
		}
		return eng.Translate(*req)
	}
}

func validateEndpoint(eng *engine.Engine) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*validateReq)
		if req.Tags == nil || req.Tags.Len() == 0 {
			return nil, fmt.Errorf("tags object is empty")
		}
		issues, status, err := eng.ValidateSet(req.Tags, req.Location)
		if err != nil {
			return nil, err
		}
		if issues == nil {
			issues = []engine.Issue{}
		}
		return validateResponse{Issues: issues, OverallStatus: status}, nil
	}
}

func suggestEndpoint(eng *engine.Engine) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*suggestReq)
		if req.Tags == nil || req.Tags.Len() == 0 {
			return nil, fmt.Errorf("tags object is empty")
		}
		recs, err := eng.SuggestFor(req.Tags, req.Limit)
		if err != nil {
			return nil, err
		}
		if recs == nil {
			recs = []tagdict.Recommendation{}
		}
		return suggestResponse{Suggestions: recs}, nil
	}
}

func explainEndpoint(eng *engine.Engine) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*explainReq)
		if req.Tags == nil || req.Tags.Len() == 0 {
			return nil, fmt.Errorf("tags object is empty")
		}
		return eng.ExplainSet(req.Tags)
	}
}

func tagDocEndpoint(reg *tagdict.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*tagDocReq)
		dict := reg.Current()
		if dict == nil {
			return nil, fmt.Errorf("no dictionary loaded")
		}
		doc, ok := dict.Describe(req.Key)
		if !ok {
			return nil, fmt.Errorf("unknown tag key %q", req.Key)
		}
		return tagDocResponse{
			Key:         doc.Key,
			Description: doc.Description,
			Wiki:        doc.Wiki,
			Values:      doc.Values,
		}, nil
	}
}

func dictInfoEndpoint(reg *tagdict.Registry) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		dict := reg.Current()
		if dict == nil {
			return nil, fmt.Errorf("no dictionary loaded")
		}
		return dictInfoResponse{
			Sources:      reg.Sources(),
			Rules:        dict.RuleCount(),
			Deprecations: dict.DeprecationCount(),
		}, nil
	}
}
