package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/devbush/vidtrans/internal/domain"
)

// ParseInputFile reads a file listing video paths, one per line.
// Blank lines and lines starting with # are ignored.
func ParseInputFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var paths []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return paths, nil
}

// CollectVideos combines CLI arguments and file input, deduplicating.
// Relative names are resolved against folder. Args come first, then file
// entries; anything that is not a recognized video file is rejected.
func CollectVideos(folder string, args []string, filePath string) ([]string, error) {
	inputs := append([]string(nil), args...)
	if filePath != "" {
		fromFile, err := ParseInputFile(filePath)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, fromFile...)
	}

	seen := make(map[string]bool)
	var videos []string
	for _, in := range inputs {
		if !domain.IsVideoFile(in) {
			return nil, fmt.Errorf("not a recognized video file: %s (expected %s)", in, strings.Join(domain.VideoExtensions, ", "))
		}
		p := in
		if !filepath.IsAbs(p) && filepath.Dir(p) == "." {
			p = filepath.Join(folder, p)
		}
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			videos = append(videos, p)
		}
	}

	return videos, nil
}
