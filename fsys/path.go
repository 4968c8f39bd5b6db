package fsys

import (
	"strings"

	"github.com/StevenMonty/File-System/errors"
)

// ParsedPath is the result of splitting an absolute path into the fields the
// directory and file layers key lookups on. Tokens gives the number of
// fields the input actually populated: 0 for "/", 1 for "/DIR", 2 for
// "/DIR/NAME" (no extension), 3 for "/DIR/NAME.EXT".
type ParsedPath struct {
	Dir    string
	Name   string
	Ext    string
	Tokens int
}

// ParsePath splits path according to the "/%[^/]/%[^.].%s" format: the first
// path component fills Dir, the text up to the next '.' fills Name, and
// anything after that '.' fills Ext. A missing '.' leaves Ext empty with
// Tokens == 2. Name and extension lengths are capped at 8 and 3 characters
// respectively; Dir is capped at 8. Overflow of any field is NameTooLong.
func ParsePath(path string) (ParsedPath, error) {
	var parsed ParsedPath

	if !strings.HasPrefix(path, "/") {
		return parsed, errors.ErrNotFound.WithMessage("path must be absolute: " + path)
	}

	rest := path[1:]
	if rest == "" {
		return parsed, nil
	}

	slashIdx := strings.IndexByte(rest, '/')
	if slashIdx == -1 {
		parsed.Dir = rest
		parsed.Tokens = 1
	} else {
		parsed.Dir = rest[:slashIdx]
		nameExt := rest[slashIdx+1:]

		dotIdx := strings.IndexByte(nameExt, '.')
		if dotIdx == -1 {
			parsed.Name = nameExt
			parsed.Tokens = 2
		} else {
			parsed.Name = nameExt[:dotIdx]
			parsed.Ext = nameExt[dotIdx+1:]
			parsed.Tokens = 3
		}
	}

	if len(parsed.Dir) > 8 {
		return parsed, errors.ErrNameTooLong.WithMessage(parsed.Dir)
	}
	if len(parsed.Name) > 8 {
		return parsed, errors.ErrNameTooLong.WithMessage(parsed.Name)
	}
	if len(parsed.Ext) > 3 {
		return parsed, errors.ErrNameTooLong.WithMessage(parsed.Ext)
	}
	return parsed, nil
}
