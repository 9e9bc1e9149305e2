package corpus

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

func readJSONLines(r io.Reader, field string) ([]string, error) {
	var docs []string
	sc := newLineScanner(r)
	lineNo, skipped := 0, 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			return nil, fmt.Errorf("line %d: invalid json", lineNo)
		}
		res := gjson.Get(line, field)
		if !res.Exists() {
			skipped++
			continue
		}
		if res.IsArray() {
			for _, item := range res.Array() {
				docs = append(docs, item.String())
			}
			continue
		}
		docs = append(docs, res.String())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan json lines: %w", err)
	}
	if skipped > 0 {
		log.Warnf("Skipped %d of %d json lines without field %q", skipped, lineNo, field)
	}
	return docs, nil
}
