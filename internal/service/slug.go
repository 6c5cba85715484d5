package service

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// slugify lowers the title and collapses anything that is not a letter
// or digit into single dashes.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// uniqueSlug derives a slug from the title and, on collision (or an
// empty result, e.g. a fully non-Latin title), appends a short random
// suffix so the unique index never rejects the insert.
func uniqueSlug(tx *gorm.DB, model interface{}, title string) (string, error) {
	base := slugify(title)
	if base == "" {
		return randomSuffix(""), nil
	}

	var count int64
	if err := tx.Model(model).Where("slug = ?", base).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return base, nil
	}
	return randomSuffix(base), nil
}

func randomSuffix(base string) string {
	suffix := uuid.New().String()[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
