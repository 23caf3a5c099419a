package registryService

import (
	"errors"
	"testing"

	"MahoutGolang/internal/api/registry"
	"MahoutGolang/internal/entity"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testCatalog() []entity.Command {
	return []entity.Command{
		{ID: 2, Action: "Turn Right", Labels: map[entity.Language]string{
			entity.LanguageMalayalam: "വലത്താനെ",
			entity.LanguageHindi:     "दाएं",
			entity.LanguageGujarati:  "જમણે",
		}},
		{ID: 1, Action: "Turn Left", Labels: map[entity.Language]string{
			entity.LanguageMalayalam: "ഇടത്താനെ",
			entity.LanguageHindi:     "बाएं",
			entity.LanguageGujarati:  "ડાબે",
		}},
	}
}

func TestCatalogLoads(t *testing.T) {
	svc, err := New(testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	all := svc.All()
	if len(all) != len(registry.Catalog) {
		t.Fatalf("All returned %d commands, want %d", len(all), len(registry.Catalog))
	}

	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("All not in ascending id order at index %d: %d >= %d", i, all[i-1].ID, all[i].ID)
		}
	}
}

func TestCatalogLabelsComplete(t *testing.T) {
	svc, err := New(testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, cmd := range svc.All() {
		for _, lang := range entity.SupportedLanguages() {
			label, err := svc.LabelFor(cmd.ID, lang)
			if err != nil {
				t.Fatalf("LabelFor(%d, %s): %v", cmd.ID, lang, err)
			}
			if label == "" {
				t.Errorf("command %d (%s) has empty %s label", cmd.ID, cmd.Action, lang)
			}
		}
	}
}

func TestLookupRoundTrip(t *testing.T) {
	svc, err := newFromCatalog(testLogger(), testCatalog())
	if err != nil {
		t.Fatalf("newFromCatalog: %v", err)
	}

	byID, err := svc.LookupByID(1)
	if err != nil {
		t.Fatalf("LookupByID(1): %v", err)
	}

	byAction, err := svc.LookupByAction(byID.Action)
	if err != nil {
		t.Fatalf("LookupByAction(%q): %v", byID.Action, err)
	}

	if byAction.ID != byID.ID {
		t.Errorf("round trip mismatch: got id %d, want %d", byAction.ID, byID.ID)
	}
}

func TestLookupUnknownCommand(t *testing.T) {
	svc, err := newFromCatalog(testLogger(), testCatalog())
	if err != nil {
		t.Fatalf("newFromCatalog: %v", err)
	}

	if _, err := svc.LookupByID(999); !errors.Is(err, registry.ErrCommandNotFound) {
		t.Errorf("LookupByID(999) = %v, want ErrCommandNotFound", err)
	}
	if _, err := svc.LookupByAction("Moonwalk"); !errors.Is(err, registry.ErrCommandNotFound) {
		t.Errorf("LookupByAction = %v, want ErrCommandNotFound", err)
	}
}

func TestLabelForUnsupportedLanguage(t *testing.T) {
	svc, err := newFromCatalog(testLogger(), testCatalog())
	if err != nil {
		t.Fatalf("newFromCatalog: %v", err)
	}

	if _, err := svc.LabelFor(1, entity.Language("fr")); !errors.Is(err, registry.ErrUnsupportedLanguage) {
		t.Errorf("LabelFor with unsupported language = %v, want ErrUnsupportedLanguage", err)
	}
}

func TestValidateCatalogRejectsBadInput(t *testing.T) {
	base := testCatalog()

	cases := []struct {
		name    string
		catalog []entity.Command
	}{
		{"empty", nil},
		{"duplicate id", append(testCatalog(), entity.Command{
			ID: 1, Action: "Other", Labels: base[0].Labels,
		})},
		{"duplicate action", append(testCatalog(), entity.Command{
			ID: 3, Action: "Turn Left", Labels: base[0].Labels,
		})},
		{"missing label", append(testCatalog(), entity.Command{
			ID: 3, Action: "Stop", Labels: map[entity.Language]string{
				entity.LanguageMalayalam: "നിൽക്കൂ",
				entity.LanguageHindi:     "रुको",
			},
		})},
		{"extra language", append(testCatalog(), entity.Command{
			ID: 3, Action: "Stop", Labels: map[entity.Language]string{
				entity.LanguageMalayalam: "നിൽക്കൂ",
				entity.LanguageHindi:     "रुको",
				entity.LanguageGujarati:  "ઊભા રહો",
				entity.Language("fr"):    "arrête",
			},
		})},
		{"invalid id", append(testCatalog(), entity.Command{
			ID: 0, Action: "Stop", Labels: base[0].Labels,
		})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := newFromCatalog(testLogger(), tc.catalog); err == nil {
				t.Errorf("newFromCatalog accepted %s catalog", tc.name)
			}
		})
	}
}
