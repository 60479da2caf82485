package cli

import (
	"context"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"

	"github.com/framewright/cutline/internal/compiler"
	"github.com/framewright/cutline/internal/project"
)

// CLI error codes.
const (
	ErrCodeGeneric    = "E001" // unclassified error
	ErrCodeNotFound   = "E002" // file, directory or project not found
	ErrCodeCompile    = "E003" // CUE compilation error
	ErrCodeStore      = "E004" // database error
	ErrCodeValidation = "E005" // project failed validation
	ErrCodeScript     = "E006" // script load or step failure
	ErrCodeWrite      = "E007" // writing an output file failed
)

// LoadError represents an error that occurred while loading a project file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadProjectFile compiles a CUE project file into a Project.
// The file must declare a top-level "project" struct.
func LoadProjectFile(path string) (*compiler.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("project file not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error reading project file: %v", err)}
	}

	ctx := cuecontext.New()
	v := ctx.CompileString(string(data), cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeCompile, Message: fmt.Sprintf("parsing CUE: %v", err)}
	}

	pv := v.LookupPath(cue.ParsePath("project"))
	if !pv.Exists() {
		return nil, &LoadError{Code: ErrCodeCompile, Message: "no top-level \"project\" struct found", Pos: v.Pos()}
	}

	return compiler.CompileProject(pv)
}

// openStore opens the project database named by the global --db flag.
func openStore(opts *RootOptions) (*project.Store, error) {
	s, err := project.Open(opts.DBPath)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeStore, Message: fmt.Sprintf("opening project database: %v", err)}
	}
	return s, nil
}

// loadStoredProject reads a named project from the database.
func loadStoredProject(ctx context.Context, opts *RootOptions, name string) (*compiler.Project, error) {
	s, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	p, err := s.Load(ctx, name)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("loading project %q: %v", name, err)}
	}
	return p, nil
}

// resolveProject loads a project either from a CUE file (when filePath is
// set) or from the database by name. Every read-side command shares this
// so file-based and stored projects behave identically.
func resolveProject(ctx context.Context, opts *RootOptions, name, filePath string) (*compiler.Project, error) {
	if filePath != "" {
		return LoadProjectFile(filePath)
	}
	if name == "" {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "a project name or --file is required"}
	}
	return loadStoredProject(ctx, opts, name)
}
