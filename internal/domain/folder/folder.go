package folder

import (
	"path"
	"sort"
	"strings"

	"github.com/quizplayer/backend/internal/domain/questionbank"
)

// Listing is the content of one quiz folder: subfolder names and quiz file
// names, both relative to the folder.
type Listing struct {
	Folders []string `json:"folders"`
	Files   []string `json:"files"`
}

// NewListing sorts both lists case-insensitively. Nil inputs become empty
// lists so the JSON form is always arrays.
func NewListing(folders, files []string) Listing {
	l := Listing{
		Folders: append([]string{}, folders...),
		Files:   append([]string{}, files...),
	}
	sortFold(l.Folders)
	sortFold(l.Files)
	return l
}

// Empty reports whether the folder holds neither subfolders nor quizzes.
func (l Listing) Empty() bool {
	return len(l.Folders) == 0 && len(l.Files) == 0
}

func sortFold(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
}

// Join builds the slash-separated path of name inside parent. The root
// folder is "".
func Join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// Parent returns the folder above p, "" for top-level entries.
func Parent(p string) string {
	dir := path.Dir(Clean(p))
	if dir == "." {
		return ""
	}
	return dir
}

// Clean normalizes a client-supplied folder path: slashes only, no leading
// or trailing separator. It does not resolve "..".
func Clean(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.Trim(p, "/")
}

// Entry is one row of a browsed folder, carrying the advisory validation
// flag. A folder is invalid when any quiz beneath it is.
type Entry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	DisplayName string `json:"display_name"`
	Valid       bool   `json:"valid"`
	Reason      string `json:"reason,omitempty"`
}

// NewFileEntry describes a quiz file inside parent.
func NewFileEntry(parent, name string, check questionbank.FileCheck) Entry {
	return Entry{
		Name:        name,
		Path:        Join(parent, name),
		DisplayName: questionbank.DisplayName(name),
		Valid:       check.Valid,
		Reason:      check.Reason,
	}
}

// NewFolderEntry describes a subfolder inside parent.
func NewFolderEntry(parent, name string, hasInvalid bool) Entry {
	e := Entry{
		Name:        name,
		Path:        Join(parent, name),
		DisplayName: name,
		Valid:       !hasInvalid,
	}
	if hasInvalid {
		e.Reason = "Contains invalid quizzes"
	}
	return e
}
