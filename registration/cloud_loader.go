package registration

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kwv/cloudfit/fitness"
)

// CloudFormat identifies an on-disk point cloud encoding.
type CloudFormat string

const (
	// FormatXYZ is whitespace separated text, one "x y z [extra...]" per line.
	FormatXYZ CloudFormat = "xyz"
	// FormatJSON is a JSON array of {"x":..,"y":..,"z":..} objects.
	FormatJSON CloudFormat = "json"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (CloudFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xyz", ".txt", ".pts":
		return FormatXYZ, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported point cloud extension %q", filepath.Ext(path))
}

// ParseCloudFile reads and parses a point cloud file
func ParseCloudFile(path string) (fitness.PointCloud, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	cloud, err := ParseCloud(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cloud, nil
}

// ParseCloud parses a point cloud in the given format
func ParseCloud(r io.Reader, format CloudFormat) (fitness.PointCloud, error) {
	switch format {
	case FormatXYZ:
		return parseXYZ(r)
	case FormatJSON:
		var cloud fitness.PointCloud
		if err := json.NewDecoder(r).Decode(&cloud); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		return cloud, nil
	}
	return nil, fmt.Errorf("unsupported point cloud format %q", format)
}

func parseXYZ(r io.Reader) (fitness.PointCloud, error) {
	var cloud fitness.PointCloud
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected at least 3 columns, got %d", lineNo, len(fields))
		}

		var coords [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %d: %w", lineNo, i+1, err)
			}
			coords[i] = v
		}
		cloud = append(cloud, fitness.Point{X: coords[0], Y: coords[1], Z: coords[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading XYZ: %w", err)
	}
	return cloud, nil
}
