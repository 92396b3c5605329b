package extract

import (
	"fmt"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

// Registry keeps the resource-type-to-extractor lookup table. Adding a
// resource type is one Register call plus one extractor implementation.
type Registry struct {
	extractors map[domain.ResourceType]ports.Extractor
}

var _ ports.ExtractorResolver = (*Registry)(nil)

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: map[domain.ResourceType]ports.Extractor{}}
}

// Register adds or replaces the extractor for a resource type.
func (r *Registry) Register(resourceType domain.ResourceType, extractor ports.Extractor) {
	if r.extractors == nil {
		r.extractors = map[domain.ResourceType]ports.Extractor{}
	}
	r.extractors[resourceType] = extractor
}

// Resolve returns the extractor for a resource type or an error if absent.
func (r *Registry) Resolve(resourceType domain.ResourceType) (ports.Extractor, error) {
	if extractor, ok := r.extractors[resourceType]; ok {
		return extractor, nil
	}
	return nil, fmt.Errorf("no extractor registered for resource type %s", resourceType)
}
