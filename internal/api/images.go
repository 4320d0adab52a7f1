package api

import (
	"io/fs"
	"net/http"
)

// fileOnlyFS serves regular files only. Directories answer as missing so
// http.FileServer never renders a listing.
type fileOnlyFS struct {
	fs http.FileSystem
}

func (f fileOnlyFS) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

// imageServer serves question images from dir.
func imageServer(dir string) http.Handler {
	return http.StripPrefix("/images/", http.FileServer(fileOnlyFS{fs: http.Dir(dir)}))
}
