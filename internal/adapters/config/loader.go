// Package config provides the configuration loader for press.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

var validSetNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Loader implements ports.ConfigLoader using a YAML or TOML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load discovers the configuration by walking up from cwd.
// When no file is found the defaults are returned, rooted at cwd.
func (l *Loader) Load(cwd string) (*domain.Site, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	configPath, found := findConfiguration(absCwd)
	if !found {
		site := Defaults()
		site.Root = absCwd
		return site, nil
	}
	return l.LoadFile(configPath)
}

// LoadFile reads the configuration at path. The format is chosen by extension.
func (l *Loader) LoadFile(path string) (*domain.Site, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFailedToResolveRelativePath.Error()), "path", path)
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", absPath)
	}

	var file Pressfile
	if err := decode(absPath, data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", absPath)
	}

	if file.Version != "" && file.Version != "1" {
		l.Logger.Warn("unknown config version " + file.Version + " in " + filepath.Base(absPath) + ", reading it as version 1")
	}

	site, err := buildSite(&file, filepath.Dir(absPath))
	if err != nil {
		return nil, zerr.With(err, "path", absPath)
	}
	return site, nil
}

// findConfiguration walks up from cwd and returns the first press.yaml or press.toml.
// In a directory holding both, press.yaml wins.
func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		for _, name := range []string{domain.ConfigFileName, domain.TOMLConfigFileName} {
			candidate := filepath.Join(currentDir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func decode(path string, data []byte, out *Pressfile) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(out)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// defaultPostProcess prefixes vendor properties and merges media queries.
var defaultPostProcess = []string{"postcss", "--use", "autoprefixer", "--use", "css-mqpacker", "--replace"}

// Defaults returns the site layout of a project without a configuration file.
func Defaults() *domain.Site {
	return &domain.Site{
		Source: domain.DefaultSourceDir,
		Output: domain.DefaultOutputDir,
		HTML:   domain.HTMLConfig{Includes: true},
		Style: domain.StyleConfig{
			Entry:        "scss/main.scss",
			IncludePaths: []string{"node_modules/normalize.css/"},
			PostProcess:  slices.Clone(defaultPostProcess),
			SourceMap:    true,

			OptionalPostProcess: true,
		},
		Scripts: []domain.ScriptSet{
			{Name: "vendor", Dir: "js/vendor", Target: "vendor.js", MinTarget: "vendor.min.js"},
			{Name: "modules", Dir: "js/modules", Target: "main.js", MinTarget: "main.min.js", SourceMap: true},
		},
		Images: domain.ImageConfig{
			OptimizationLevel: domain.DefaultPNGLevel,
			Progressive:       true,
		},
		Content: domain.ContentConfig{Quality: domain.DefaultWebpQuality},
		Deploy: domain.DeployConfig{
			Remote:  domain.DefaultDeployRemote,
			Branch:  domain.DefaultDeployBranch,
			Message: domain.DefaultDeployMessage,
		},
		Serve: domain.ServeConfig{
			Host:     "localhost",
			Port:     domain.DefaultServePort,
			Open:     true,
			CORS:     true,
			Debounce: domain.DefaultDebounce,
		},
		Tools: map[string]string{},
	}
}

func buildSite(file *Pressfile, configDir string) (*domain.Site, error) {
	site := Defaults()
	site.Root = resolveRoot(configDir, file.Root)

	if file.Source != "" {
		site.Source = filepath.ToSlash(filepath.Clean(file.Source))
	}
	if file.Output != "" {
		site.Output = filepath.ToSlash(filepath.Clean(file.Output))
	}
	if err := validateDirs(site); err != nil {
		return nil, err
	}

	applyHTML(site, file.HTML)
	applyStyle(site, file.Style)
	if err := applyScripts(site, file.Scripts); err != nil {
		return nil, err
	}
	if err := applyImages(site, file.Images, file.Content); err != nil {
		return nil, err
	}
	applyDeploy(site, file.Deploy)
	if err := applyServe(site, file.Serve); err != nil {
		return nil, err
	}

	for alias, bin := range file.Tools {
		site.Tools[alias] = bin
	}
	return site, nil
}

func resolveRoot(configDir, root string) string {
	if root == "" {
		return configDir
	}
	if filepath.IsAbs(root) {
		return filepath.Clean(root)
	}
	return filepath.Join(configDir, root)
}

func validateDirs(site *domain.Site) error {
	for key, dir := range map[string]string{"source": site.Source, "output": site.Output} {
		if filepath.IsAbs(dir) || dir == "." || dir == ".." || strings.HasPrefix(dir, "../") {
			return zerr.With(zerr.With(domain.ErrOutputPathOutsideRoot, "field", key), "value", dir)
		}
	}
	if site.Source == site.Output {
		return zerr.With(zerr.Wrap(errors.New("source and output must differ"), domain.ErrConfigInvalid.Error()), "value", site.Source)
	}
	return nil
}

func applyHTML(site *domain.Site, dto *HTMLDTO) {
	if dto != nil && dto.Includes != nil {
		site.HTML.Includes = *dto.Includes
	}
}

func applyStyle(site *domain.Site, dto *StyleDTO) {
	if dto == nil {
		return
	}
	if dto.Entry != "" {
		site.Style.Entry = filepath.ToSlash(filepath.Clean(dto.Entry))
	}
	if dto.IncludePaths != nil {
		site.Style.IncludePaths = dto.IncludePaths
	}
	if dto.PostProcess != nil {
		// An explicit command must run; an empty list turns post-processing off.
		site.Style.PostProcess = dto.PostProcess
		site.Style.OptionalPostProcess = false
	}
	if dto.SourceMap != nil {
		site.Style.SourceMap = *dto.SourceMap
	}
}

func applyScripts(site *domain.Site, dtos []ScriptDTO) error {
	if dtos == nil {
		return nil
	}

	seen := make(map[string]bool, len(dtos))
	sets := make([]domain.ScriptSet, 0, len(dtos))
	for _, dto := range dtos {
		if !validSetNameRegex.MatchString(dto.Name) {
			return zerr.With(zerr.Wrap(errors.New("script set name must be lowercase alphanumeric"), domain.ErrConfigInvalid.Error()), "script_set", dto.Name)
		}
		if seen[dto.Name] {
			return zerr.With(zerr.Wrap(errors.New("duplicate script set"), domain.ErrConfigInvalid.Error()), "script_set", dto.Name)
		}
		seen[dto.Name] = true

		set := domain.ScriptSet{
			Name:      dto.Name,
			Dir:       dto.Dir,
			Target:    dto.Target,
			MinTarget: dto.MinTarget,
			SourceMap: dto.SourceMap,
		}
		if set.Dir == "" {
			set.Dir = "js/" + dto.Name
		}
		if set.Target == "" {
			set.Target = dto.Name + ".js"
		}
		if set.MinTarget == "" {
			set.MinTarget = strings.TrimSuffix(set.Target, ".js") + ".min.js"
		}
		sets = append(sets, set)
	}
	site.Scripts = sets
	return nil
}

func applyImages(site *domain.Site, images *ImagesDTO, content *ContentDTO) error {
	if images != nil {
		if images.OptimizationLevel != nil {
			level := *images.OptimizationLevel
			if level < 0 || level > 7 {
				return zerr.With(zerr.Wrap(errors.New("optimizationLevel must be between 0 and 7"), domain.ErrConfigInvalid.Error()), "value", level)
			}
			site.Images.OptimizationLevel = level
		}
		if images.Progressive != nil {
			site.Images.Progressive = *images.Progressive
		}
	}

	if content != nil && content.Quality != nil {
		quality := *content.Quality
		if quality < 0 || quality > 100 {
			return zerr.With(zerr.Wrap(errors.New("quality must be between 0 and 100"), domain.ErrConfigInvalid.Error()), "value", quality)
		}
		site.Content.Quality = quality
	}
	return nil
}

func applyDeploy(site *domain.Site, dto *DeployDTO) {
	if dto == nil {
		return
	}
	if dto.Remote != "" {
		site.Deploy.Remote = dto.Remote
	}
	if dto.Repository != "" {
		site.Deploy.Repository = dto.Repository
	}
	if dto.Branch != "" {
		site.Deploy.Branch = dto.Branch
	}
	if dto.Message != "" {
		site.Deploy.Message = dto.Message
	}
}

func applyServe(site *domain.Site, dto *ServeDTO) error {
	if dto == nil {
		return nil
	}
	if dto.Host != "" {
		site.Serve.Host = dto.Host
	}
	if dto.Port != nil {
		port := *dto.Port
		if port < 0 || port > 65535 {
			return zerr.With(zerr.Wrap(errors.New("port must be between 0 and 65535"), domain.ErrConfigInvalid.Error()), "value", port)
		}
		site.Serve.Port = port
	}
	if dto.Open != nil {
		site.Serve.Open = *dto.Open
	}
	if dto.CORS != nil {
		site.Serve.CORS = *dto.CORS
	}
	if dto.Debounce != "" {
		d, err := time.ParseDuration(dto.Debounce)
		if err != nil || d < 0 {
			return zerr.With(zerr.Wrap(errors.New("debounce must be a non-negative duration"), domain.ErrConfigInvalid.Error()), "value", dto.Debounce)
		}
		site.Serve.Debounce = d
	}
	return nil
}
