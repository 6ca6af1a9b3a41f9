package storage

import (
	"strings"

	"github.com/luma/eosc/records"
)

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
)

// Key joins segments into a path, escaping the characters gjson and sjson
// treat as syntax.
func Key(segments ...string) string {
	escaped := make([]string, 0, len(segments))

	for _, s := range segments {
		escaped = append(escaped, pathEscaper.Replace(s))
	}

	return strings.Join(escaped, ".")
}

// RecordKey is where a record target is stored: "<type>.<number>", or
// "cue.<list>.<number>" for cues.
func RecordKey(r records.RecordTarget) string {
	base := r.Base()

	if cue, ok := r.(*records.Cue); ok {
		return Key(string(base.TargetType), cue.CueList.String(), base.TargetNumber.String())
	}

	return Key(string(base.TargetType), base.TargetNumber.String())
}
