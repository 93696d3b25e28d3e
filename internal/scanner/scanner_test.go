package scanner

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xjiaxiang/build-cleaner/internal/config"
	"github.com/xjiaxiang/build-cleaner/internal/progress"
	"github.com/xjiaxiang/build-cleaner/internal/testutil"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func testConfig(folders, files []string) *config.Config {
	return &config.Config{
		Clean:   config.CleanSpec{Folders: folders, Files: files},
		Options: config.Options{Recursive: true},
	}
}

func TestSearchFindsFoldersAndFiles(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateDir("project/node_modules")
	f.CreateDir("project/dist")
	f.CreateFile("project/app.log", []byte("test"))
	f.CreateFile("project/main.go", []byte("package main"))

	cfg := testConfig([]string{"node_modules", "dist"}, []string{"*.log"})

	result, err := Search([]string{f.RootDir}, cfg)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(result.Folders) != 2 {
		t.Errorf("got %d folders, want 2: %v", len(result.Folders), result.Folders)
	}
	if len(result.Files) != 1 {
		t.Errorf("got %d files, want 1: %v", len(result.Files), result.Files)
	}
	if result.TotalSize != 4 {
		t.Errorf("TotalSize = %d, want 4", result.TotalSize)
	}
}

func TestSearchPrunesMatchedFolders(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("node_modules/sub/file.txt", []byte("buried"))
	f.CreateFile("node_modules/file.js", []byte("buried too"))
	f.CreateFile("other/file.txt", []byte("visible"))

	cfg := testConfig([]string{"node_modules"}, nil)

	result, err := Search([]string{f.RootDir}, cfg)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	want := []string{f.Path("node_modules")}
	if !reflect.DeepEqual(result.Folders, want) {
		t.Errorf("Folders = %v, want %v", result.Folders, want)
	}
	if len(result.Files) != 0 {
		t.Errorf("Files = %v, want none", result.Files)
	}

	// Nothing beneath node_modules may reach the counters: only the
	// fixture root, node_modules and other are directories, and only
	// other/file.txt is a visible file.
	if result.TotalDirsScanned != 3 {
		t.Errorf("TotalDirsScanned = %d, want 3", result.TotalDirsScanned)
	}
	if result.TotalFilesScanned != 1 {
		t.Errorf("TotalFilesScanned = %d, want 1", result.TotalFilesScanned)
	}
}

func TestSearchMatchedFolderSizeIsRecursive(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("node_modules/a.txt", make([]byte, 12))
	f.CreateFile("node_modules/deep/b.txt", make([]byte, 14))
	f.CreateDir("node_modules/deep/empty")

	cfg := testConfig([]string{"node_modules"}, nil)

	result, err := Search([]string{f.RootDir}, cfg)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.TotalSize < 26 {
		t.Errorf("TotalSize = %d, want at least 26", result.TotalSize)
	}
}

func TestSearchExcludedPathsAreInvisible(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("keep/node_modules/x.txt", []byte("x"))
	f.CreateFile("scan/app.log", []byte("log"))

	cfg := testConfig([]string{"node_modules"}, []string{"*.log"})
	cfg.Exclude = []string{f.Path("keep")}

	result, err := Search([]string{f.RootDir}, cfg)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(result.Folders) != 0 {
		t.Errorf("excluded folder matched: %v", result.Folders)
	}
	if len(result.Files) != 1 {
		t.Errorf("Files = %v, want just the log", result.Files)
	}
	// keep/ and everything under it is invisible to the counters:
	// only root and scan are counted.
	if result.TotalDirsScanned != 2 {
		t.Errorf("TotalDirsScanned = %d, want 2", result.TotalDirsScanned)
	}
	if result.TotalFilesScanned != 1 {
		t.Errorf("TotalFilesScanned = %d, want 1", result.TotalFilesScanned)
	}
}

func TestSearchSizeBounds(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("small.log", make([]byte, 10))
	f.CreateFile("medium.log", make([]byte, 100))
	f.CreateFile("large.log", make([]byte, 1000))

	cfg := testConfig(nil, []string{"*.log"})
	cfg.Options.MinSize = int64Ptr(50)
	cfg.Options.MaxSize = int64Ptr(500)

	result, err := Search([]string{f.RootDir}, cfg)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	want := []string{f.Path("medium.log")}
	if !reflect.DeepEqual(result.Files, want) {
		t.Errorf("Files = %v, want %v", result.Files, want)
	}
	// Out-of-bounds files are still scanned, just not matched.
	if result.TotalFilesScanned != 3 {
		t.Errorf("TotalFilesScanned = %d, want 3", result.TotalFilesScanned)
	}
}

func TestSearchAgeBounds(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithAge("old.log", []byte("old"), 100*24*time.Hour)
	f.CreateFile("new.log", []byte("new"))

	cfg := testConfig(nil, []string{"*.log"})
	cfg.Options.MinAgeDays = intPtr(30)

	result, err := Search([]string{f.RootDir}, cfg)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	want := []string{f.Path("old.log")}
	if !reflect.DeepEqual(result.Files, want) {
		t.Errorf("Files = %v, want %v", result.Files, want)
	}
}

func TestSearchNonRecursive(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("top.log", []byte("top"))
	f.CreateFile("sub/nested.log", []byte("nested"))

	cfg := testConfig(nil, []string{"*.log"})
	cfg.Options.Recursive = false

	result, err := Search([]string{f.RootDir}, cfg)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	want := []string{f.Path("top.log")}
	if !reflect.DeepEqual(result.Files, want) {
		t.Errorf("Files = %v, want %v", result.Files, want)
	}
}

func TestSearchMaxDepth(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("zero.log", []byte("0"))
	f.CreateFile("a/one.log", []byte("1"))
	f.CreateFile("a/b/two.log", []byte("2"))

	cfg := testConfig(nil, []string{"*.log"})
	cfg.Options.MaxDepth = intPtr(2)

	result, err := Search([]string{f.RootDir}, cfg)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	// Depth 0 is the root, so max_depth 2 reaches a/one.log but not
	// a/b/two.log.
	want := []string{f.Path("a/one.log"), f.Path("zero.log")}
	if !reflect.DeepEqual(result.Files, want) {
		t.Errorf("Files = %v, want %v", result.Files, want)
	}
}

func TestSearchFollowSymlinks(t *testing.T) {
	f := testutil.NewFixture(t)
	real := f.CreateDir("real")
	f.CreateFile("real/linked.log", []byte("linked"))
	f.CreateSymlink(real, "scan/link")

	cfg := testConfig(nil, []string{"*.log"})
	cfg.Exclude = []string{f.Path("real")}

	// Without following, the link is invisible.
	result, err := Search([]string{f.Path("scan")}, cfg)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Files) != 0 {
		t.Errorf("symlink was followed while disabled: %v", result.Files)
	}

	cfg.Options.FollowSymlinks = true
	result, err = Search([]string{f.Path("scan")}, cfg)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Files) != 1 {
		t.Errorf("Files = %v, want the linked log", result.Files)
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("node_modules/pkg/index.js", []byte("module"))
	f.CreateFile("logs/a.log", []byte("aaa"))
	f.CreateFile("logs/b.log", []byte("bbbb"))

	cfg := testConfig([]string{"node_modules"}, []string{"*.log"})

	first, err := Search([]string{f.RootDir}, cfg)
	if err != nil {
		t.Fatalf("first Search failed: %v", err)
	}
	second, err := Search([]string{f.RootDir}, cfg)
	if err != nil {
		t.Fatalf("second Search failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated search over an unchanged tree diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSearchProgressCountersNeverDecrease(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateDir("a/node_modules")
	f.CreateDir("b/node_modules")
	f.CreateFile("c/x.log", []byte("x"))

	cfg := testConfig([]string{"node_modules"}, []string{"*.log"})

	var updates []progress.ScanUpdate
	notifier := progress.NotifierFunc(func(u progress.ScanUpdate) {
		updates = append(updates, u)
	})

	if _, err := SearchWithProgress([]string{f.RootDir}, cfg, notifier); err != nil {
		t.Fatalf("SearchWithProgress failed: %v", err)
	}

	if len(updates) == 0 {
		t.Fatal("expected at least one progress update (one per folder match)")
	}
	for i := 1; i < len(updates); i++ {
		prev, cur := updates[i-1], updates[i]
		if cur.FilesScanned < prev.FilesScanned || cur.DirsScanned < prev.DirsScanned ||
			cur.FilesMatched < prev.FilesMatched || cur.DirsMatched < prev.DirsMatched ||
			cur.TotalSize < prev.TotalSize {
			t.Errorf("update %d went backwards: %+v -> %+v", i, prev, cur)
		}
	}
}

func TestSearchRootErrors(t *testing.T) {
	cfg := testConfig([]string{"node_modules"}, nil)

	if _, err := Search([]string{"/nonexistent/path/12345"}, cfg); err == nil {
		t.Error("expected error for unresolvable root")
	}
}

func TestSearchFileRoot(t *testing.T) {
	f := testutil.NewFixture(t)
	logFile := f.CreateFile("standalone.log", []byte("solo"))

	cfg := testConfig(nil, []string{"*.log"})

	result, err := Search([]string{logFile}, cfg)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Files) != 1 || result.Files[0] != logFile {
		t.Errorf("Files = %v, want [%s]", result.Files, logFile)
	}
}

func TestDirSize(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("dir/a", make([]byte, 12))
	f.CreateFile("dir/sub/b", make([]byte, 14))
	f.CreateDir("dir/sub/empty")

	if got := DirSize(f.Path("dir")); got != 26 {
		t.Errorf("DirSize = %d, want 26", got)
	}
	if got := DirSize(filepath.Join(f.RootDir, "missing")); got != 0 {
		t.Errorf("DirSize of missing dir = %d, want 0", got)
	}
}
