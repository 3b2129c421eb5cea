package canonical

import "strings"

// CategoryNormalizer maps free-form category labels onto a fixed vocabulary.
// The canonicalizer treats it as an optional collaborator: without one, the
// source value passes through verbatim.
type CategoryNormalizer interface {
	Normalize(raw string) string
}

// Fixed vocabulary of hearing-aid inventory categories.
const (
	CategoryBTE       = "BTE"
	CategoryITE       = "ITE"
	CategoryITC       = "ITC"
	CategoryRIC       = "RIC"
	CategoryCIC       = "CIC"
	CategoryBattery   = "battery"
	CategoryEarmold   = "earmold"
	CategoryAccessory = "accessory"
	CategoryOther     = "other"
)

var categoryAliases = map[string]string{
	"bte":            CategoryBTE,
	"behind-the-ear": CategoryBTE,
	"behind the ear": CategoryBTE,

	"ite":        CategoryITE,
	"in-the-ear": CategoryITE,
	"in the ear": CategoryITE,

	"itc":          CategoryITC,
	"in-the-canal": CategoryITC,

	"ric":               CategoryRIC,
	"receiver-in-canal": CategoryRIC,
	"rite":              CategoryRIC,

	"cic":                 CategoryCIC,
	"completely-in-canal": CategoryCIC,

	"battery":   CategoryBattery,
	"batteries": CategoryBattery,
	"pil":       CategoryBattery,

	"earmold":  CategoryEarmold,
	"ear mold": CategoryEarmold,
	"kalıp":    CategoryEarmold,

	"accessory":   CategoryAccessory,
	"accessories": CategoryAccessory,
	"aksesuar":    CategoryAccessory,
	"charger":     CategoryAccessory,
	"remote":      CategoryAccessory,

	"other": CategoryOther,
	"misc":  CategoryOther,
}

type vocabularyNormalizer struct{}

// NewCategoryNormalizer returns the clinic's fixed-vocabulary normalizer.
// Unknown labels pass through trimmed, so the normalizer is idempotent: every
// output maps to itself.
func NewCategoryNormalizer() *vocabularyNormalizer {
	return &vocabularyNormalizer{}
}

func (n *vocabularyNormalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if canonical, ok := categoryAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}

	return trimmed
}
