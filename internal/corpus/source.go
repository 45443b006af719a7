// ABOUTME: Corpus sources reading the bio and project list from disk or over HTTP
// ABOUTME: Project lists are JSON by default, YAML when the file name says so
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/harper/folio/internal/core"
	"github.com/harper/folio/internal/models"
)

// Raw is the unprocessed source material
type Raw struct {
	About    string
	Projects []models.Project
}

// Source fetches the raw corpus material
type Source interface {
	Fetch(ctx context.Context) (*Raw, error)
}

// FileSource reads the bio and project list from local files
type FileSource struct {
	AboutPath    string
	ProjectsPath string
}

// NewFileSource creates a FileSource
func NewFileSource(aboutPath, projectsPath string) *FileSource {
	return &FileSource{AboutPath: aboutPath, ProjectsPath: projectsPath}
}

// Fetch reads both files
func (s *FileSource) Fetch(ctx context.Context) (*Raw, error) {
	about, err := os.ReadFile(s.AboutPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrDataUnavailable, err)
	}

	data, err := os.ReadFile(s.ProjectsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrDataUnavailable, err)
	}

	projects, err := ParseProjects(data, s.ProjectsPath)
	if err != nil {
		return nil, err
	}

	return &Raw{About: string(about), Projects: projects}, nil
}

// Paths returns the files this source reads
func (s *FileSource) Paths() []string {
	return []string{s.AboutPath, s.ProjectsPath}
}

// HTTPSource fetches /data/about.md and /data/projects.json from a site
type HTTPSource struct {
	BaseURL string
	client  *http.Client
}

// NewHTTPSource creates an HTTPSource; a nil client gets a 30s timeout client
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Fetch downloads both documents concurrently
func (s *HTTPSource) Fetch(ctx context.Context) (*Raw, error) {
	var about, projectsData []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		about, err = s.get(gctx, "/data/about.md")
		return err
	})
	g.Go(func() error {
		var err error
		projectsData, err = s.get(gctx, "/data/projects.json")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	projects, err := ParseProjects(projectsData, "projects.json")
	if err != nil {
		return nil, err
	}

	return &Raw{About: string(about), Projects: projects}, nil
}

func (s *HTTPSource) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrDataUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %w", core.ErrDataUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetching %s: HTTP %d", core.ErrDataUnavailable, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", core.ErrDataUnavailable, path, err)
	}
	return body, nil
}

// ParseProjects decodes a project list; name selects YAML for .yaml/.yml
func ParseProjects(data []byte, name string) ([]models.Project, error) {
	var projects []models.Project

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &projects); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %w", core.ErrDataUnavailable, name, err)
		}
	default:
		if err := json.Unmarshal(data, &projects); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %w", core.ErrDataUnavailable, name, err)
		}
	}

	return projects, nil
}
