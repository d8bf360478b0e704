package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// FileInfo is an input file found on disk
type FileInfo struct {
	FullPath string
	Name     string
	Size     int64
	ModTime  time.Time
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return ext != "" && lo.Contains(extensions, ext)
}

// ListAudioFiles returns the files directly inside dir whose extension is one
// of extensions, oldest first. Hidden files are skipped.
func ListAudioFiles(dir string, extensions []string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var fileInfos []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !hasExtension(entry.Name(), extensions) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		fileInfos = append(fileInfos, FileInfo{
			FullPath: filepath.Join(dir, entry.Name()),
			Name:     entry.Name(),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
	}

	sort.SliceStable(fileInfos, func(i, j int) bool {
		return fileInfos[i].ModTime.Before(fileInfos[j].ModTime)
	})
	return fileInfos, nil
}

// ExpandPaths replaces every directory in paths with the audio files it
// contains. Plain files are kept as given so later checks can report them.
func ExpandPaths(paths []string, extensions []string) ([]string, error) {
	var expanded []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			expanded = append(expanded, p)
			continue
		}
		found, err := ListAudioFiles(p, extensions)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, lo.Map(found, func(f FileInfo, _ int) string { return f.FullPath })...)
	}
	return expanded, nil
}
