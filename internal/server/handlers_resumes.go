package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/kirankm/resume-ranker/internal/db"
	"github.com/kirankm/resume-ranker/internal/ingestion"
	"github.com/kirankm/resume-ranker/internal/server/middleware"
	"github.com/kirankm/resume-ranker/internal/storage"
	"github.com/kirankm/resume-ranker/internal/types"
	"go.uber.org/zap"
)

// uploadField is the multipart field carrying the resume file.
const uploadField = "resume"

// multipartMemory bounds the in-memory part of a parsed upload; the rest
// spills to temp files.
const multipartMemory = 8 << 20

// handleUpload stores an uploaded resume and its extracted text.
//
// The blob is written only after extraction succeeds and is removed again if
// the record cannot be inserted, so a failed request leaves nothing behind.
// Unsupported formats are stored with the sentinel text.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	tooLarge := fmt.Sprintf("File exceeds the %d byte upload limit", s.maxUploadBytes)
	if r.ContentLength > s.maxUploadBytes {
		writeError(w, s.logger, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	data, filename, err := readUpload(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
			writeError(w, s.logger, http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		writeError(w, s.logger, http.StatusBadRequest, "No file provided")
		return
	}

	result := ingestion.Extract(data, filename)
	if result.Kind == ingestion.KindFailed {
		err := &ErrExtractionFailed{Filename: filename, Err: result.Err}
		s.logger.Warn("extraction failed", zap.String("filename", filename), zap.Error(result.Err))
		writeError(w, s.logger, HTTPStatus(err), fmt.Sprintf("Could not extract text from %s", filename))
		return
	}

	resume, err := s.storeResume(r, filename, result, data)
	if err != nil {
		s.logger.Error("failed to store resume", zap.String("filename", filename), zap.Error(err))
		writeError(w, s.logger, HTTPStatus(err), "Failed to store resume")
		return
	}

	s.logger.Info("resume uploaded",
		zap.String("resume_id", resume.ID.String()),
		zap.String("filename", filename),
		zap.String("format", string(result.Format)),
		zap.String("kind", result.Kind.String()),
		zap.Int("bytes", len(data)),
	)
	writeJSON(w, s.logger, http.StatusOK, types.UploadResponse{
		Message:       "Resume uploaded successfully!",
		ExtractedText: result.Text,
	})
}

// readUpload returns the bytes and client file name of the "resume" part.
func readUpload(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, "", err
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func (s *Server) storeResume(r *http.Request, filename string, result ingestion.Result, data []byte) (*db.Resume, error) {
	ctx := r.Context()
	key := storage.NewKey(filename)

	if err := s.blobs.Put(ctx, key, result.Format.ContentType(), data); err != nil {
		return nil, err
	}

	resume, err := s.store.CreateResume(ctx, filename, key, result.Text)
	if err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to remove orphaned blob", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	return resume, nil
}

// handleGetResumes lists every stored resume.
func (s *Server) handleGetResumes(w http.ResponseWriter, r *http.Request) {
	s.listResumes(w, r)
}

// handleAdminDashboard lists every stored resume for an authenticated admin.
func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.GetPrincipal(r)
	if err != nil {
		s.logger.Error("dashboard reached without principal", zap.Error(err))
		writeError(w, s.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.logger.Info("admin dashboard viewed",
		zap.String("admin_id", admin.GetAdminID().String()),
		zap.String("username", admin.GetUsername()),
	)
	s.listResumes(w, r)
}

func (s *Server) listResumes(w http.ResponseWriter, r *http.Request) {
	resumes, err := s.store.ListResumes(r.Context())
	if err != nil {
		s.logger.Error("failed to list resumes", zap.Error(err))
		writeError(w, s.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	views := make([]types.ResumeView, 0, len(resumes))
	for _, res := range resumes {
		views = append(views, types.ResumeView{Filename: res.Filename, Text: res.Text})
	}
	writeJSON(w, s.logger, http.StatusOK, views)
}
