package board_test

import (
	"bytes"
	"flag"
	"go/ast"
	"go/parser"
	"go/token"
	"os/exec"
	"path/filepath"
	"testing"
)

var targets = []string{
	// Please keep this list sorted!
	"esp32-coreboard-v2",
	"simulator",
}

var flagSmoke = flag.Bool("smoke", false, "compile the smoke test for every target (needs tinygo)")

func TestSmoke(t *testing.T) {
	if !*flagSmoke {
		t.Skip("smoke test disabled, enable with -smoke")
	}
	for _, target := range targets {
		target := target
		t.Run(target, func(t *testing.T) {
			t.Parallel()
			outbuf := &bytes.Buffer{}
			var cmd *exec.Cmd
			if target == "simulator" {
				cmd = exec.Command("go", "build", "-o="+t.TempDir()+"/output", "./testdata/smoketest")
			} else {
				cmd = exec.Command("tinygo", "build", "-o="+t.TempDir()+"/output", "-target="+target, "./testdata/smoketest")
			}
			cmd.Stderr = outbuf
			cmd.Stdout = outbuf
			err := cmd.Run()
			if err != nil {
				t.Errorf("failed to compile smoke test: %s\n%s", err, outbuf.String())
			}
		})
	}
}

// The only exported functions allowed in hardware binding files.
var allowedConstructors = map[string]bool{
	"New2432S024C": true,
	"New2432S028R": true,
}

// Exported methods that hardware binding types may define: those of
// board.Hardware and of the peripheral interfaces it returns. Anything else
// would only be reachable on some boards.
var allowedMethods = map[string]bool{
	// Hardware
	"Revision":             true,
	"ConfigureDisplay":     true,
	"ConfigureBacklight":   true,
	"ConfigureTouch":       true,
	"ConfigureButton":      true,
	"ConfigureLightSensor": true,
	"ConfigureLEDPins":     true,
	"ConfigureLEDPWM":      true,
	"ConfigureSpeaker":     true,
	"ConfigureStorage":     true,

	// Peripherals
	"Release":      true,
	"SetFrequency": true,
	"SetDuty":      true,
	"Probe":        true,
	"Mount":        true,
	"Unmount":      true,
}

// Test for exported names: hardware binding files may only add a constructor,
// so that the API is the same on every board.
func TestExported(t *testing.T) {
	files, err := filepath.Glob("board-esp32*.go")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no hardware binding files found")
	}
	for _, filename := range files {
		filename := filename
		t.Run(filename, func(t *testing.T) {
			// Parse the Go file into an AST.
			fset := token.NewFileSet()
			f, err := parser.ParseFile(fset, filename, nil, parser.SkipObjectResolution)
			if err != nil {
				t.Fatalf("could not open/parse %s: %v", filename, err)
			}

			for _, decl := range f.Decls {
				pos := fset.Position(decl.Pos())
				switch decl := decl.(type) {
				case *ast.FuncDecl:
					if !decl.Name.IsExported() {
						continue
					}
					if decl.Recv != nil && len(decl.Recv.List) > 0 {
						if !allowedMethods[decl.Name.Name] {
							recv := extractTypeName(decl.Recv.List[0].Type)
							t.Errorf("%s: unexpected method %s on %s", pos, decl.Name.Name, recv)
						}
						continue
					}
					if !allowedConstructors[decl.Name.Name] {
						t.Errorf("%s: unexpected exported function %s", pos, decl.Name.Name)
					}
				case *ast.GenDecl:
					if decl.Tok == token.IMPORT {
						continue
					}
					for _, spec := range decl.Specs {
						pos := fset.Position(spec.Pos())
						switch spec := spec.(type) {
						case *ast.ValueSpec:
							for _, name := range spec.Names {
								if name.IsExported() {
									t.Errorf("%s: unexpected %s: %s", pos, decl.Tok, name.Name)
								}
							}
						case *ast.TypeSpec:
							// Bindings shouldn't define any new public types.
							if spec.Name.IsExported() {
								t.Errorf("%s: unexpected type: %s", pos, spec.Name)
							}
						default:
							t.Errorf("%s: unexpected spec: %#v", pos, spec)
						}
					}
				default:
					t.Logf("%s: unexpected declaration: %#v", pos, decl)
				}
			}
		})
	}
}

// Extract the named type from the given AST expression (resolving things like
// *ast.StarExpr).
func extractTypeName(x ast.Expr) string {
	switch value := x.(type) {
	case *ast.Ident:
		return value.Name
	case *ast.StarExpr:
		return extractTypeName(value.X)
	default:
		return "<unknown>"
	}
}
