package theme

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/vishnuprakaz/sales-assist/pkg/logger"
)

// Highlight colours source for the terminal. language may be empty to let
// chroma guess; formatter is a chroma formatter name such as "terminal16m"
// or "noop".
func Highlight(source, language, formatter string) string {
	if source == "" {
		return ""
	}

	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	f := formatters.Get(formatter)
	if f == nil {
		f = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		logger.Debug("Failed to tokenize, using plain text: %v", err)
		return source
	}

	var buf strings.Builder
	if err := f.Format(&buf, styles.Get("monokai"), iterator); err != nil {
		logger.Debug("Failed to format, using plain text: %v", err)
		return source
	}
	return buf.String()
}
