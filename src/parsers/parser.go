// backend/src/parsers/parser.go
package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/tradeinsight/backend/src/models"
	"github.com/username/tradeinsight/backend/src/parsers/gmoclick"
)

// Parser converts a raw trade-history export into normalized executions.
type Parser interface {
	Parse(file io.Reader) ([]models.Execution, error)
}

// GetParser returns the parser registered for a broker source.
func GetParser(source string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "gmoclick", "gmo":
		return gmoclick.NewParser(), nil
	default:
		return nil, fmt.Errorf("unsupported broker source: %q", source)
	}
}
