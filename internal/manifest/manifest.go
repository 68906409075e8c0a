// Package manifest loads the list of expected files and where to look for
// them.
package manifest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest describes one presence check
type Manifest struct {
	Name   string   `yaml:"name"`
	Dir    string   `yaml:"dir"`
	Preset string   `yaml:"preset"`
	Files  []string `yaml:"files"`
	Remote *Remote  `yaml:"remote"`
}

// Remote points at an object storage location holding the same files
type Remote struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    *bool  `yaml:"secure"`
}

// UseTLS defaults to true when secure is not set
func (r *Remote) UseTLS() bool {
	return r.Secure == nil || *r.Secure
}

// Load reads a YAML manifest. A relative dir is resolved against the
// manifest's own directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if m.Dir != "" && !filepath.IsAbs(m.Dir) {
		m.Dir = filepath.Join(filepath.Dir(path), m.Dir)
	}
	return &m, nil
}

// Expected returns the preset files followed by the explicit ones
func (m *Manifest) Expected() ([]string, error) {
	var files []string
	if m.Preset != "" {
		preset, ok := Preset(m.Preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", m.Preset, strings.Join(PresetNames(), ", "))
		}
		files = append(files, preset...)
	}
	return append(files, m.Files...), nil
}

// Validate checks that the manifest can be run. remote selects whether
// the remote section or the local dir is required.
func (m *Manifest) Validate(remote bool) error {
	if remote {
		if m.Remote == nil {
			return errors.New("remote check requested but manifest has no remote section")
		}
		if m.Remote.Endpoint == "" || m.Remote.Bucket == "" {
			return errors.New("remote endpoint and bucket are required")
		}
	} else if m.Dir == "" {
		return errors.New("directory to check is required")
	}

	files, err := m.Expected()
	if err != nil {
		return err
	}
	for _, name := range files {
		if err := ValidateName(name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateName rejects anything that is not a bare file name
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("empty file name")
	case name == "." || name == "..":
		return fmt.Errorf("invalid file name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("file name %q has a directory component; names must be bare filenames", name)
	}
	return nil
}

// ReadList reads file names from a list file. Plain files hold one name per
// line with '#' comments; .csv files take the first column and skip a
// "file" header.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening list file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readCSV(f)
	}
	return readLines(f)
}

func readLines(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading list file: %w", err)
	}
	return names, nil
}

func readCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'

	var names []string
	for lineNum := 1; ; lineNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV line %d: %w", lineNum, err)
		}
		name := strings.TrimSpace(record[0])
		if lineNum == 1 && strings.EqualFold(name, "file") {
			continue
		}
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
