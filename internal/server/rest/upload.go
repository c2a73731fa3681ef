package rest

import (
	"net/http"
	"os"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/filex"
)

// staged tracks files written to the upload directory during a request.
type staged []string

// cleanup removes whatever the uploader did not already remove.
func (st *staged) cleanup() {
	for _, p := range *st {
		_ = os.Remove(p)
	}
}

// stageFile saves the first multipart file under field into the upload
// directory and returns its path, or "" when the field is absent.
func (s *Server) stageFile(r *http.Request, field string, st *staged) (string, error) {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return "", nil
		}
	}

	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return "", nil
	}

	dir, err := filex.EnsureDir(s.uploadDir)
	if err != nil {
		return "", common.Internal("Something went wrong while saving the upload", err)
	}

	path, err := filex.SaveMultipart(dir, files[0])
	if err != nil {
		return "", common.Internal("Something went wrong while saving the upload", err)
	}

	*st = append(*st, path)
	return path, nil
}
