// Package klipper renders learned meshes as Klipper configuration.
package klipper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charlie0129/meshlearn/pkg/meshstats"
)

// ProfileVersion is the bed_mesh profile format version Klipper expects.
const ProfileVersion = 1

// ProfileName returns the bed_mesh profile name for a temperature label.
func ProfileName(temp string) string {
	return "learned_" + temp
}

// RenderBedMesh renders points as a [bed_mesh learned_<temp>] section. Every
// row is written on its own indented line with six decimals. params are
// appended as "key = value" lines sorted by key.
func RenderBedMesh(temp string, points meshstats.Grid, params map[string]string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n[bed_mesh %s]\n", ProfileName(temp))
	fmt.Fprintf(&sb, "version = %d\n", ProfileVersion)
	sb.WriteString("points =\n")

	for _, row := range points {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%.6f", v)
		}
		sb.WriteString("  " + strings.Join(cells, ", ") + "\n")
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s = %s\n", k, params[k])
	}

	return sb.String()
}

// ParseParams parses "key=value" pairs, as given on the command line.
func ParseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		params[k] = strings.TrimSpace(v)
	}
	return params, nil
}
