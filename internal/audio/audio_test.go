package audio

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestLevelTonic(t *testing.T) {
	tests := []struct {
		id   int
		want float64
	}{
		{0, 440},
		{1, 440},
		{3, 523},
		{9, 880},
		{20, 880},
	}
	for _, tt := range tests {
		if got := LevelTonic(tt.id); got != tt.want {
			t.Errorf("LevelTonic(%d) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestNop(t *testing.T) {
	var s Sink = &Nop{}
	s.SetMuted(true)
	if !s.Muted() {
		t.Error("Muted() = false after SetMuted(true)")
	}
	n := s.(*Nop)
	s.StartLoop([]Note{{Freq: 1, Duration: time.Second}})
	if !n.Looping() {
		t.Error("not looping after StartLoop")
	}
	s.StopLoop()
	if n.Looping() {
		t.Error("looping after StopLoop")
	}
}

// The game packages depend on this one, so it must build without a
// sound device or cgo.
func TestNoSpeakerImports(t *testing.T) {
	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatal(err)
	}
	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		src, err := os.ReadFile(name)
		if err != nil {
			t.Fatal(err)
		}
		f, err := parser.ParseFile(fset, name, src, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		for _, imp := range f.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			if strings.HasPrefix(path, "github.com/gopxl/") || strings.HasPrefix(path, "github.com/ebitengine/") {
				t.Errorf("%s imports %s", name, path)
			}
		}
	}
}
