package registryService

import (
	"MahoutGolang/internal/api/registry"
	"MahoutGolang/internal/entity"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

type IRegistryService interface {
	LookupByID(id int) (entity.Command, error)
	LookupByAction(action string) (entity.Command, error)
	LabelFor(id int, lang entity.Language) (string, error)
	All() []entity.Command
}

type registryService struct {
	log      *logrus.Logger
	byID     map[int]entity.Command
	byAction map[string]entity.Command
	ordered  []entity.Command
}

// New builds the registry from the static catalog. A catalog inconsistency is
// a fatal configuration error: the caller is expected to abort startup.
func New(log *logrus.Logger) (IRegistryService, error) {
	return newFromCatalog(log, registry.Catalog)
}

func newFromCatalog(log *logrus.Logger, catalog []entity.Command) (IRegistryService, error) {
	if err := validateCatalog(catalog); err != nil {
		return nil, err
	}

	s := &registryService{
		log:      log,
		byID:     make(map[int]entity.Command, len(catalog)),
		byAction: make(map[string]entity.Command, len(catalog)),
		ordered:  make([]entity.Command, len(catalog)),
	}

	copy(s.ordered, catalog)
	sort.Slice(s.ordered, func(i, j int) bool { return s.ordered[i].ID < s.ordered[j].ID })
	for _, cmd := range catalog {
		s.byID[cmd.ID] = cmd
		s.byAction[cmd.Action] = cmd
	}

	log.Infof("Command registry loaded with %d commands", len(catalog))

	return s, nil
}

func validateCatalog(catalog []entity.Command) error {
	if len(catalog) == 0 {
		return fmt.Errorf("command catalog is empty")
	}

	seenIDs := make(map[int]struct{}, len(catalog))
	seenActions := make(map[string]struct{}, len(catalog))

	for _, cmd := range catalog {
		if cmd.ID < 1 {
			return fmt.Errorf("command %q has invalid id %d", cmd.Action, cmd.ID)
		}
		if _, ok := seenIDs[cmd.ID]; ok {
			return fmt.Errorf("duplicate command id %d", cmd.ID)
		}
		seenIDs[cmd.ID] = struct{}{}

		if cmd.Action == "" {
			return fmt.Errorf("command %d has empty action", cmd.ID)
		}
		if _, ok := seenActions[cmd.Action]; ok {
			return fmt.Errorf("duplicate command action %q", cmd.Action)
		}
		seenActions[cmd.Action] = struct{}{}

		for _, lang := range entity.SupportedLanguages() {
			if cmd.Labels[lang] == "" {
				return fmt.Errorf("command %d (%s) is missing a %s label", cmd.ID, cmd.Action, lang)
			}
		}
		if len(cmd.Labels) != len(entity.SupportedLanguages()) {
			return fmt.Errorf("command %d (%s) has labels for unsupported languages", cmd.ID, cmd.Action)
		}
	}

	return nil
}
