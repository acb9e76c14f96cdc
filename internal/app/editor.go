package app

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/kk-code-lab/rnav/internal/config"
)

// editorCommand returns the argv of the first editor found on PATH. It tries
// the configured editor, $VISUAL, $EDITOR and then the configured fallbacks.
func editorCommand(cfg config.Config, getenv func(string) string, lookPath func(string) (string, error)) ([]string, bool) {
	candidates := append([]string{cfg.Editor, getenv("VISUAL"), getenv("EDITOR")}, cfg.Editors...)
	for _, candidate := range candidates {
		args := splitCommand(candidate)
		if len(args) == 0 {
			continue
		}
		path, err := lookPath(homePath(args[0]))
		if err != nil {
			continue
		}
		args[0] = path
		return args, true
	}
	return nil, false
}

// splitCommand splits s into words on unquoted whitespace. Single or double
// quotes group a word and are dropped; inside one kind the other is literal.
func splitCommand(s string) []string {
	var (
		args   []string
		word   strings.Builder
		quote  rune
		inWord bool
	)
	for _, r := range s {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			word.WriteRune(r)
		case r == '\'' || r == '"':
			quote, inWord = r, true
		case unicode.IsSpace(r):
			if inWord {
				args = append(args, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		args = append(args, word.String())
	}
	return args
}

// homePath expands a leading "~" or "~/" to the home directory.
func homePath(path string) string {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != filepath.Separator) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
