package registryService

import (
	"MahoutGolang/internal/api/registry"
	"MahoutGolang/internal/entity"
)

func (s *registryService) LookupByID(id int) (entity.Command, error) {
	cmd, ok := s.byID[id]
	if !ok {
		return entity.Command{}, registry.ErrCommandNotFound
	}
	return cmd, nil
}

func (s *registryService) LookupByAction(action string) (entity.Command, error) {
	cmd, ok := s.byAction[action]
	if !ok {
		return entity.Command{}, registry.ErrCommandNotFound
	}
	return cmd, nil
}

func (s *registryService) LabelFor(id int, lang entity.Language) (string, error) {
	if !lang.IsSupported() {
		return "", registry.ErrUnsupportedLanguage
	}

	cmd, ok := s.byID[id]
	if !ok {
		return "", registry.ErrCommandNotFound
	}

	return cmd.Labels[lang], nil
}

// All returns the catalog in ascending id order.
func (s *registryService) All() []entity.Command {
	out := make([]entity.Command, len(s.ordered))
	copy(out, s.ordered)
	return out
}
