package loader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/rigscore/internal/domain/model"
)

// lineagePattern matches "{family}-gen{N}{variant}" with an optional
// "generation" spelling and an optional dash before N or the variant.
var lineagePattern = regexp.MustCompile(`^(.+?)-gen(?:eration)?-?(\d+)(?:-?([a-z][a-z0-9]*))?$`) //nolint:gochecknoglobals // compiled once

// ParseLineage decomposes an entity id into family, variant and generation.
// Ids outside the convention yield a Lineage with Valid false.
func ParseLineage(id string) model.Lineage {
	m := lineagePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(id)))
	if m == nil {
		return model.Lineage{}
	}
	gen, err := strconv.Atoi(m[2])
	if err != nil {
		return model.Lineage{}
	}
	return model.Lineage{
		Family:     m[1],
		Variant:    m[3],
		Generation: gen,
		Valid:      true,
	}
}
