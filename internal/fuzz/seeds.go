package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var languageSeeds = []string{
	"",
	"class A {}",
	"package p;\nimport q.B;\nclass A extends B { int x; }\n",
	"class A { static int f(int n) { return n <= 1 ? 1 : n * f(n - 1); } }",
	"class A { int f() { int s = 0; for (int i = 0; i < 10; i++) { if (i % 2 == 0) continue; s += i; } return s; } }",
	"class A { void f() { while (true) { break; } do { } while (false); } }",
	"class A { String g(String n) { return \"hi \" + n + '!' + 1 + true; } }",
	"class A { boolean f(String a, String b) { return a.equals(b) && a.length() > 0 || !(a == null); } }",
	"class A { static int x = Math.max(1, 2); static { x = -x; } }",
	"class A { A next; int v; A() { v = 0x7fffffff; } int f() { return new A().v; } }",
	// незакрытые скобки, затем нет точки с запятой
	"class A { int f( {",
	"class A { int f() { return 1 } }",
	"/* unterminated",
	"class A { char c = 'x; }",
	"}}}{{{ ;;; class",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.java file under ../../testdata, if present.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".java" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
