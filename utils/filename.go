package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateUniqueFilename produces a collision-free stored name for an upload,
// keeping the original extension.
func GenerateUniqueFilename(dir, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, base)
	if len(base) > 40 {
		base = base[:40]
	}

	name := fmt.Sprintf("%s_%s%s", base, uuid.NewString(), ext)
	if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
		// uuid collision is practically impossible; fall back anyway
		name = fmt.Sprintf("%s_%s%s", base, uuid.NewString(), ext)
	}
	return name
}
