package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/openclaw/qrgen/controller"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 64 << 10

func (s *Server) handleUploadLogo(w http.ResponseWriter, r *http.Request) {
	ctrl := controllerFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, controller.MaxLogoBytes+multipartOverhead)
	if err := r.ParseMultipartForm(controller.MaxLogoBytes + multipartOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			// Route through the controller so the session gets the notification.
			writeDomainError(w, ctrl.UploadLogo(nil, "image/*", tooBig.Limit+1))
			return
		}
		writeError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("logo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "logo is required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	var data []byte
	if header.Size <= controller.MaxLogoBytes {
		data, err = io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read file: "+err.Error())
			return
		}
	}

	if err := ctrl.UploadLogo(data, mimeType, header.Size); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, s.state(ctrl))
}

func (s *Server) handleRemoveLogo(w http.ResponseWriter, r *http.Request) {
	ctrl := controllerFrom(r)
	ctrl.RemoveLogo()
	writeJSON(w, http.StatusOK, s.state(ctrl))
}
