package model

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrInvalidArtifactName is returned when a decoded artifact name cannot be
// used as a file name inside the output directory.
var ErrInvalidArtifactName = errors.New("invalid artifact name")

// Artifact is the result of a successful decode.
// Name is used both as the output file name and as the dedup value.
type Artifact struct {
	Name string
	Data []byte
}

// SafeName returns the artifact name reduced to its final path element.
// Names that would escape the output directory are rejected.
func (a *Artifact) SafeName() (string, error) {
	name := strings.TrimSpace(a.Name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", ErrInvalidArtifactName
	}
	return name, nil
}

// Record is one persisted dedup entry: title -> artifact file name.
type Record struct {
	Title   string `json:"title"`
	Torrent string `json:"torrent"`
}
