// Package examples registers sample suites with discovery.Default so the
// suitetree binary has something to run out of the box.
package examples

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/suitetree/pkg/discovery"
	"github.com/roach88/suitetree/pkg/fixture"
	"github.com/roach88/suitetree/pkg/tree"
)

func init() {
	Register(discovery.Default)
}

// Register adds the sample suites to reg.
func Register(reg *discovery.Registry) {
	reg.MustRegister(discovery.Suite{Name: "Calculator", Build: calculatorSuite})
	reg.MustRegister(discovery.Suite{Name: "Workspace", Build: workspaceSuite})
}

var errDivideByZero = errors.New("division by zero")

func divide(a, b int) (int, error) {
	if b == 0 {
		return 0, errDivideByZero
	}
	return a / b, nil
}

func expect[T comparable](got, want T) error {
	if got != want {
		return fmt.Errorf("expected %v, got %v", want, got)
	}
	return nil
}

func calculatorSuite(g *tree.Group) {
	var acc int
	g.BeforeEach(func() error {
		acc = 0
		return nil
	})

	g.Test("adds", func() error {
		acc += 2 + 3
		return expect(acc, 5)
	})

	g.Group("division", func(g *tree.Group) {
		g.Test("exact", func() error {
			q, err := divide(12, 4)
			if err != nil {
				return err
			}
			return expect(q, 3)
		})
		g.Test("by zero", func() error {
			_, err := divide(1, 0)
			if !errors.Is(err, errDivideByZero) {
				return fmt.Errorf("expected %v, got %v", errDivideByZero, err)
			}
			return nil
		})
		g.XTest("fractions", func() error {
			return errors.New("fractions are not supported")
		})
	})
}

func workspaceSuite(g *tree.Group) {
	dir := fixture.TempDir(g, fixture.WithName("workspace"))

	g.Group("files", func(g *tree.Group) {
		g.BeforeEach(func() error {
			for _, name := range []string{"a.txt", "nested/b.txt"} {
				p := filepath.Join(dir.Path(), name)
				if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
					return err
				}
				if err := os.WriteFile(p, []byte(name), 0o644); err != nil {
					return err
				}
			}
			return nil
		})

		g.Test("are found", func() error {
			found, err := fixture.ExpectFiles(dir.Path(), "**/*.txt", 2, 2)
			if err != nil {
				return err
			}
			return expect(filepath.Base(found[len(found)-1]), "b.txt")
		})

		g.Test("are fresh per test", func() error {
			data, err := os.ReadFile(filepath.Join(dir.Path(), "a.txt"))
			if err != nil {
				return err
			}
			return expect(strings.TrimSpace(string(data)), "a.txt")
		})
	})
}
