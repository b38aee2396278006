package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/openclaw/qrgen/render"
	"github.com/openclaw/qrgen/store"
)

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	data, gen, err := controllerFrom(r).Preview()
	if errors.Is(err, render.ErrEmptyCanvas) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-QR-Generation", strconv.FormatUint(gen, 10))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	now := s.Now()
	d, err := controllerFrom(r).Export(now)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if s.History != nil {
		s.recordExport(sessionFrom(r), d.Filename, d.Content, d.PixelSize, d.HasLogo, len(d.Data), now.UnixMilli())
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(d.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(d.Data)
}

// recordExport logs a download. Failures never fail the download.
func (s *Server) recordExport(sid, filename, content string, pixelSize int, hasLogo bool, size int, at int64) {
	e := &store.Export{
		ID:        uuid.NewString(),
		Session:   sid,
		Filename:  filename,
		Content:   content,
		PixelSize: pixelSize,
		HasLogo:   hasLogo,
		Bytes:     size,
		CreatedAt: at,
	}
	if err := s.History.Save(e); err != nil {
		s.Log.Warn("failed to record export", "error", err)
		return
	}
	if n, err := s.History.Prune(s.HistoryLimit); err != nil {
		s.Log.Warn("failed to prune export history", "error", err)
	} else if n > 0 {
		s.Log.Debug("pruned export history", "removed", n)
	}
}
