package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/quizplayer/backend/internal/domain/folder"
	"github.com/quizplayer/backend/internal/domain/questionbank"
	"github.com/quizplayer/backend/internal/store"
	"github.com/quizplayer/backend/internal/worker"
)

var (
	ErrInvalidPath = errors.New("invalid path")
	ErrNotFound    = errors.New("not found")
)

// QuizExt is the extension of quiz files.
const QuizExt = ".txt"

// Config tunes validation.
type Config struct {
	Bounds  questionbank.Bounds
	Workers int
}

// Catalog serves the quiz tree: listings, raw content and the advisory
// consecutive-line validation of files and folders.
type Catalog struct {
	fsys   fs.FS
	cache  store.Store
	cfg    Config
	logger *slog.Logger
}

// New creates a Catalog over fsys. cache may be nil, in which case every
// validation reads the file.
func New(fsys fs.FS, cache store.Store, cfg Config, logger *slog.Logger) *Catalog {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Bounds == (questionbank.Bounds{}) {
		cfg.Bounds = questionbank.DefaultBounds
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{fsys: fsys, cache: cache, cfg: cfg, logger: logger}
}

// fsPath converts a client path into an fs.FS path. The root is ".".
func fsPath(p string) (string, error) {
	p = folder.Clean(p)
	if p == "" {
		return ".", nil
	}
	if !fs.ValidPath(p) {
		return "", fmt.Errorf("%q: %w", p, ErrInvalidPath)
	}
	return p, nil
}

func isQuiz(name string) bool {
	return strings.HasSuffix(name, QuizExt)
}

// List returns the subfolders and quiz files of a folder.
func (c *Catalog) List(ctx context.Context, folderPath string) (folder.Listing, error) {
	dir, err := fsPath(folderPath)
	if err != nil {
		return folder.Listing{}, err
	}

	entries, err := fs.ReadDir(c.fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return folder.Listing{}, fmt.Errorf("folder %q: %w", folderPath, ErrNotFound)
		}
		return folder.Listing{}, fmt.Errorf("read folder %q: %w", folderPath, err)
	}

	var folders, files []string
	for _, e := range entries {
		switch {
		case e.IsDir():
			folders = append(folders, e.Name())
		case e.Type().IsRegular() && isQuiz(e.Name()):
			files = append(files, e.Name())
		}
	}
	return folder.NewListing(folders, files), nil
}

// Fetch returns the raw text of a file below the quiz root.
func (c *Catalog) Fetch(ctx context.Context, filePath string) (string, error) {
	p, err := fsPath(filePath)
	if err != nil {
		return "", err
	}
	if p == "." {
		return "", fmt.Errorf("%q: %w", filePath, ErrInvalidPath)
	}

	data, err := fs.ReadFile(c.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("quiz %q: %w", filePath, ErrNotFound)
		}
		return "", fmt.Errorf("read quiz %q: %w", filePath, err)
	}
	return string(data), nil
}

// Validate checks a quiz file's consecutive-line runs. Unreadable files
// are reported valid so they stay selectable; loading them surfaces the
// real error.
func (c *Catalog) Validate(ctx context.Context, filePath string) questionbank.FileCheck {
	p, err := fsPath(filePath)
	if err != nil {
		return questionbank.FileCheck{Valid: true, Reason: "Could not read file"}
	}

	info, err := fs.Stat(c.fsys, p)
	if err != nil || info.IsDir() {
		return questionbank.FileCheck{Valid: true, Reason: "Could not read file"}
	}

	if c.cache != nil {
		cached, err := c.cache.GetCheck(ctx, p)
		switch {
		case err == nil && cached.Fresh(info.Size(), info.ModTime()):
			return cached.Check
		case err != nil && !errors.Is(err, store.ErrNotFound):
			c.logger.Warn("validation cache lookup failed", "path", p, "error", err)
		}
	}

	data, err := fs.ReadFile(c.fsys, p)
	if err != nil {
		return questionbank.FileCheck{Valid: true, Reason: "Could not read file"}
	}
	check := c.cfg.Bounds.ValidateText(string(data))

	if c.cache != nil {
		entry := store.CachedCheck{Path: p, Size: info.Size(), ModTime: info.ModTime(), Check: check}
		if err := c.cache.SaveCheck(ctx, entry); err != nil {
			c.logger.Warn("validation cache save failed", "path", p, "error", err)
		}
	}
	return check
}

// HasInvalidQuizzes reports whether any quiz file below folderPath fails
// validation. Unreadable subtrees are skipped.
func (c *Catalog) HasInvalidQuizzes(ctx context.Context, folderPath string) bool {
	dir, err := fsPath(folderPath)
	if err != nil {
		return false
	}

	found := false
	_ = fs.WalkDir(c.fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.Type().IsRegular() && isQuiz(d.Name()) && !c.Validate(ctx, p).Valid {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// View is a folder listing annotated with validation flags.
// Empty is set when the folder holds neither subfolders nor quizzes.
type View struct {
	Folder  string         `json:"folder"`
	Parent  *string        `json:"parent"`
	Empty   bool           `json:"empty"`
	Folders []folder.Entry `json:"folders"`
	Files   []folder.Entry `json:"files"`
}

// Browse lists a folder and validates every entry concurrently on the
// worker pool. It returns once all checks are joined.
func (c *Catalog) Browse(ctx context.Context, folderPath string) (View, error) {
	listing, err := c.List(ctx, folderPath)
	if err != nil {
		return View{}, err
	}
	current := folder.Clean(folderPath)

	jobs := make(map[string]worker.Job[folder.Entry], len(listing.Folders)+len(listing.Files))
	for _, name := range listing.Folders {
		jobs["d/"+name] = func() folder.Entry {
			return folder.NewFolderEntry(current, name, c.HasInvalidQuizzes(ctx, folder.Join(current, name)))
		}
	}
	for _, name := range listing.Files {
		jobs["f/"+name] = func() folder.Entry {
			return folder.NewFileEntry(current, name, c.Validate(ctx, folder.Join(current, name)))
		}
	}

	results := worker.Run(c.cfg.Workers, jobs)

	view := View{
		Folder:  current,
		Empty:   listing.Empty(),
		Folders: make([]folder.Entry, 0, len(listing.Folders)),
		Files:   make([]folder.Entry, 0, len(listing.Files)),
	}
	if current != "" {
		parent := folder.Parent(current)
		view.Parent = &parent
	}
	for _, name := range listing.Folders {
		view.Folders = append(view.Folders, results["d/"+name])
	}
	for _, name := range listing.Files {
		view.Files = append(view.Files, results["f/"+name])
	}

	invalid := 0
	for _, e := range view.Files {
		if !e.Valid {
			invalid++
		}
	}
	c.logger.Debug("folder browsed", "folder", current, "folders", len(view.Folders), "files", len(view.Files), "invalid_files", invalid)
	return view, nil
}
