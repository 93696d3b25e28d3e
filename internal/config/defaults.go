package config

import "os"

// ProjectType identifies the toolchain a project root belongs to,
// detected from marker files in the root directory.
type ProjectType string

const (
	ProjectNodeJS  ProjectType = "nodejs"
	ProjectRust    ProjectType = "rust"
	ProjectPython  ProjectType = "python"
	ProjectGo      ProjectType = "go"
	ProjectJava    ProjectType = "java"
	ProjectUnknown ProjectType = "unknown"
)

// markerFiles maps a characteristic file name to the project type it
// indicates. Checked in directory-listing order; first hit wins.
var markerFiles = map[string]ProjectType{
	"package.json":     ProjectNodeJS,
	"Cargo.toml":       ProjectRust,
	"go.mod":           ProjectGo,
	"pom.xml":          ProjectJava,
	"build.gradle":     ProjectJava,
	"requirements.txt": ProjectPython,
	"setup.py":         ProjectPython,
	"pyproject.toml":   ProjectPython,
}

// DetectProjectType inspects the entries of root for a marker file.
func DetectProjectType(root string) ProjectType {
	entries, err := os.ReadDir(root)
	if err != nil {
		return ProjectUnknown
	}

	for _, entry := range entries {
		if t, ok := markerFiles[entry.Name()]; ok {
			return t
		}
	}
	return ProjectUnknown
}

// Default returns the built-in configuration for a project type.
func Default(projectType ProjectType) *Config {
	var folders, files []string

	switch projectType {
	case ProjectNodeJS:
		folders = []string{"node_modules", "dist", "build", ".next"}
	case ProjectRust:
		folders = []string{"target"}
	case ProjectPython:
		folders = []string{"__pycache__"}
		files = []string{"*.pyc"}
	case ProjectGo:
		folders = []string{"vendor", "bin"}
	case ProjectJava:
		folders = []string{"target", "build"}
	default:
		folders = []string{"node_modules", "dist", "build", "target"}
	}

	return &Config{
		Clean:   CleanSpec{Folders: folders, Files: files},
		Options: Options{Recursive: true},
	}
}

// DefaultForRoot detects the project type of root and returns the
// matching defaults.
func DefaultForRoot(root string) *Config {
	return Default(DetectProjectType(root))
}
