package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"
)

//go:embed openapi.yaml
var rawSpec []byte

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// validated wraps next with request validation against the operation
// documented for method and pattern. chi and OpenAPI share the {param} syntax,
// so the route pattern is the document path.
func (s *Server) validated(method, pattern string, next http.HandlerFunc) (http.HandlerFunc, error) {
	item := s.doc.Paths.Find(pattern)
	if item == nil {
		return nil, fmt.Errorf("route %s %s is not documented", method, pattern)
	}
	op := item.GetOperation(method)
	if op == nil {
		return nil, fmt.Errorf("route %s %s is not documented", method, pattern)
	}
	route := &routers.Route{
		Spec:      s.doc,
		Path:      pattern,
		PathItem:  item,
		Method:    method,
		Operation: op,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		params := make(map[string]string)
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				params[key] = rctx.URLParams.Values[i]
			}
		}
		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: params,
			Route:      route,
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			s.logger.Warn("request rejected", "method", method, "path", pattern, "error", err)
			http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
			return
		}
		next(w, r)
	}, nil
}
