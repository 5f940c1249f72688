// Package declfile loads model declarations from HCL files.
//
//	model "Example" {
//	  variable "x" { spec = ["u", "v"] }
//	  variable "t" {}
//
//	  function "f" {
//	    args = ["t", "x"]
//	    expr = [x.v, pow(t, 2) + x.u]
//	  }
//
//	  derivative "df_dx" {
//	    of  = "f"
//	    wrt = ["x"]
//	  }
//
//	  sparse "df_dx" {}
//	}
//
// Function expressions are translated into symbolic expressions rather
// than evaluated; sparse `where` conditions are evaluated once per nonzero
// index with the index tuple bound to i.
package declfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/njchilds90/gosymgen/internal/ctxlog"
	"github.com/njchilds90/gosymgen/model"
)

// Load parses every file named in paths and every .hcl file found under
// directories in paths, in order, and returns the declared models. Paths
// that do not exist are skipped.
func Load(ctx context.Context, paths ...string) ([]*model.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Declaration loader started.", "path_count", len(paths))

	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var defs []*model.Definition
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		fileDefs, err := decodeFile(ctx, file, f)
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}
	logger.Debug("Declaration loading complete.", "models", len(defs))
	return defs, nil
}

// LoadSource parses one declaration held in memory; filename is used in
// diagnostics only.
func LoadSource(ctx context.Context, filename string, src []byte) ([]*model.Definition, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	return decodeFile(ctx, filename, f)
}

func decodeFile(ctx context.Context, filename string, f *hcl.File) ([]*model.Definition, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	defs := make([]*model.Definition, 0, len(root.Models))
	for _, mb := range root.Models {
		def, err := translateModel(ctx, mb)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// findHCLFiles flattens paths into a list of files without duplicates.
// Files named directly are kept whatever their extension; directories
// contribute their .hcl files.
func findHCLFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			files = append(files, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
