package commands

import "context"

type Service struct {
	prefix  string
	catalog []CommandDescriptor
}

func NewService(prefix string) *Service {
	return &Service{prefix: prefix, catalog: BuiltinCommandCatalog()}
}

// List returns the built-in commands with the configured prefix applied to
// their usage strings.
func (s *Service) List(ctx context.Context) ([]CommandDescriptor, error) {
	out := make([]CommandDescriptor, len(s.catalog))
	for i, item := range s.catalog {
		item.Usage = s.prefix + item.Usage
		out[i] = item
	}
	return out, nil
}
