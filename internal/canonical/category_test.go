package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryNormalizer(t *testing.T) {
	t.Parallel()

	n := NewCategoryNormalizer()

	tests := []struct {
		raw  string
		want string
	}{
		{"bte", CategoryBTE},
		{"Behind-The-Ear", CategoryBTE},
		{"RITE", CategoryRIC},
		{"receiver-in-canal", CategoryRIC},
		{"Batteries", CategoryBattery},
		{"pil", CategoryBattery},
		{"kalıp", CategoryEarmold},
		{"aksesuar", CategoryAccessory},
		{"charger", CategoryAccessory},
		{"misc", CategoryOther},
		{"  ite  ", CategoryITE},
		{"", ""},
		{"   ", ""},
		// Unknown labels pass through trimmed.
		{" Custom Shell ", "Custom Shell"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, n.Normalize(tt.raw), "raw=%q", tt.raw)
	}
}

func TestCategoryNormalizerIdempotent(t *testing.T) {
	t.Parallel()

	n := NewCategoryNormalizer()

	for _, c := range []string{
		CategoryBTE, CategoryITE, CategoryITC, CategoryRIC, CategoryCIC,
		CategoryBattery, CategoryEarmold, CategoryAccessory, CategoryOther,
	} {
		assert.Equal(t, c, n.Normalize(c))
	}
}
