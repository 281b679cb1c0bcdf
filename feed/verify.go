package feed

import (
	"fmt"
	"os"

	"github.com/mmcdole/gofeed"
)

// Verify re-parses a generated feed file and returns the number of entries
// it contains. It is used after generation to confirm the file on disk is a
// valid feed.
func Verify(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer f.Close()

	parsed, err := gofeed.NewParser().Parse(f)
	if err != nil {
		return 0, fmt.Errorf("failed to parse feed file %s: %w", path, err)
	}

	return len(parsed.Items), nil
}
