package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// layers lists, per package prefix under internal/, the internal prefixes it must not import.
var layers = []struct {
	prefix     string
	disallowed []string
}{
	{prefix: "normalization/", disallowed: []string{"data/", "ingest/", "http/", "services/", "app/"}},
	{prefix: "platform/", disallowed: []string{"data/", "http/", "services/", "app/"}},
	{prefix: "domain/", disallowed: []string{"data/", "ingest/", "http/", "services/", "app/"}},
	{prefix: "data/", disallowed: []string{"ingest/", "http/", "services/", "app/"}},
	{prefix: "realtime/", disallowed: []string{"data/", "ingest/", "http/", "services/", "app/"}},
	{prefix: "ingest/decode/", disallowed: []string{"data/", "ingest/reconcile/", "http/", "services/", "app/"}},
	{prefix: "ingest/", disallowed: []string{"http/", "services/", "app/"}},
	{prefix: "services/", disallowed: []string{"http/", "app/"}},
	{prefix: "http/", disallowed: []string{"app/", "data/repos/inventory/"}},
}

func TestImportBoundaries(t *testing.T) {
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}

	internalDir := filepath.Join(root, "internal")
	internalImport := modulePath + "/internal/"
	fset := token.NewFileSet()

	type violation struct {
		file string
		imp  string
		rule string
	}
	var violations []violation

	walkErr := filepath.WalkDir(internalDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case "testdata", "vendor":
				return filepath.SkipDir
			default:
				return nil
			}
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(internalDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		disallowed := disallowedFor(rel)
		if len(disallowed) == 0 {
			return nil
		}

		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil || !strings.HasPrefix(imp, internalImport) {
				continue
			}
			target := strings.TrimPrefix(imp, internalImport) + "/"
			for _, bad := range disallowed {
				if strings.HasPrefix(target, bad) {
					violations = append(violations, violation{file: "internal/" + rel, imp: imp, rule: bad})
					break
				}
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}

	if len(violations) > 0 {
		var b strings.Builder
		b.WriteString("import boundary violations:\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %s imports %q (disallowed: internal/%s)\n", v.file, v.imp, v.rule)
		}
		t.Fatal(b.String())
	}
}

// disallowedFor returns the rule of the most specific layer containing rel.
func disallowedFor(rel string) []string {
	best := -1
	for i, l := range layers {
		if strings.HasPrefix(rel, l.prefix) && (best < 0 || len(l.prefix) > len(layers[best].prefix)) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return layers[best].disallowed
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		mp := strings.TrimSpace(strings.TrimPrefix(line, "module "))
		if mp == "" {
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
		return mp, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
