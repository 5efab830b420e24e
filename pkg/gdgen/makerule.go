package gdgen

import (
	"slices"
	"strings"

	"gdflat/pkg/schemas"
)

// MakeRule returns a make dependency line for the script generated from
// file: the script depends on the file and everything it includes,
// directly or not.
func MakeRule(sch *schemas.Schema, dir, file string, opts Options) string {
	files := IncludedFilesRecursive(sch, file)
	return GeneratedFileName(dir, file, opts) + ": " + strings.Join(files, " ")
}

// IncludedFilesRecursive returns file and its include closure, sorted.
func IncludedFilesRecursive(sch *schemas.Schema, file string) []string {
	seen := map[string]bool{file: true}
	queue := []string{file}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, inc := range sch.FileIncludes(cur) {
			if !seen[inc] {
				seen[inc] = true
				queue = append(queue, inc)
			}
		}
	}
	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}
