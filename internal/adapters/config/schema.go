package config

// Pressfile represents the structure of the press.yaml (or press.toml) configuration file.
// Omitted sections keep their defaults.
type Pressfile struct {
	Version string            `yaml:"version" toml:"version"`
	Root    string            `yaml:"root" toml:"root"`
	Source  string            `yaml:"source" toml:"source"`
	Output  string            `yaml:"output" toml:"output"`
	HTML    *HTMLDTO          `yaml:"html" toml:"html"`
	Style   *StyleDTO         `yaml:"style" toml:"style"`
	Scripts []ScriptDTO       `yaml:"scripts" toml:"scripts"`
	Images  *ImagesDTO        `yaml:"images" toml:"images"`
	Content *ContentDTO       `yaml:"content" toml:"content"`
	Deploy  *DeployDTO        `yaml:"deploy" toml:"deploy"`
	Serve   *ServeDTO         `yaml:"serve" toml:"serve"`
	Tools   map[string]string `yaml:"tools" toml:"tools"`
}

// HTMLDTO configures page assembly.
type HTMLDTO struct {
	Includes *bool `yaml:"includes" toml:"includes"`
}

// StyleDTO configures the stylesheet task.
type StyleDTO struct {
	Entry        string   `yaml:"entry" toml:"entry"`
	IncludePaths []string `yaml:"includePaths" toml:"includePaths"`
	PostProcess  []string `yaml:"postprocess" toml:"postprocess"`
	SourceMap    *bool    `yaml:"sourcemap" toml:"sourcemap"`
}

// ScriptDTO configures one concatenated script set.
type ScriptDTO struct {
	Name      string `yaml:"name" toml:"name"`
	Dir       string `yaml:"dir" toml:"dir"`
	Target    string `yaml:"target" toml:"target"`
	MinTarget string `yaml:"minTarget" toml:"minTarget"`
	SourceMap bool   `yaml:"sourcemap" toml:"sourcemap"`
}

// ImagesDTO configures image optimization.
type ImagesDTO struct {
	OptimizationLevel *int  `yaml:"optimizationLevel" toml:"optimizationLevel"`
	Progressive       *bool `yaml:"progressive" toml:"progressive"`
}

// ContentDTO configures WebP conversion.
type ContentDTO struct {
	Quality *int `yaml:"quality" toml:"quality"`
}

// DeployDTO configures publishing.
type DeployDTO struct {
	Remote     string `yaml:"remote" toml:"remote"`
	Repository string `yaml:"repository" toml:"repository"`
	Branch     string `yaml:"branch" toml:"branch"`
	Message    string `yaml:"message" toml:"message"`
}

// ServeDTO configures the development server.
type ServeDTO struct {
	Host     string `yaml:"host" toml:"host"`
	Port     *int   `yaml:"port" toml:"port"`
	Open     *bool  `yaml:"open" toml:"open"`
	CORS     *bool  `yaml:"cors" toml:"cors"`
	Debounce string `yaml:"debounce" toml:"debounce"`
}
