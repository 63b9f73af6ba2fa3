package app

import (
	"path"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// allowedExtensions - допустимые расширения загружаемых изображений.
var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

// allowedFile сообщает, что у имени есть расширение из списка разрешенных.
func allowedFile(filename string) bool {
	ext := path.Ext(filename)
	if ext == "" || ext == filename {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}

// sanitizeFilename приводит имя файла к безопасному виду: только ASCII,
// разделители путей и пробелы заменяются на "_", остаются [A-Za-z0-9_.-],
// ведущие и концевые "." и "_" срезаются.
func sanitizeFilename(filename string) string {
	decomposed := norm.NFKD.String(filename)

	var ascii strings.Builder
	for _, r := range decomposed {
		if r < utf8.RuneSelf {
			ascii.WriteRune(r)
		}
	}

	s := strings.NewReplacer("/", " ", `\`, " ").Replace(ascii.String())
	s = strings.Join(strings.Fields(s), "_")

	var out strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			out.WriteRune(r)
		}
	}

	return strings.Trim(out.String(), "._")
}
