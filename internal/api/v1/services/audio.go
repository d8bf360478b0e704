package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"speech-insight/internal/api/errors"
	"speech-insight/internal/api/v1/dto"
	apperrors "speech-insight/internal/app/errors"
	"speech-insight/internal/app/logging"
	"speech-insight/internal/app/model"
	"speech-insight/internal/app/repository"
	"speech-insight/internal/app/storage"
)

// PreviewLength is the number of transcript runes returned by an inline run
const PreviewLength = 200

// UploadPolicy limits what may be uploaded
type UploadPolicy struct {
	AllowedExtensions []string
	MaxFileSizeBytes  int64
}

// AudioServiceImpl implements AudioService
type AudioServiceImpl struct {
	store     repository.Store
	files     storage.FileStore
	processor Processor
	policy    UploadPolicy
	logger    *zap.Logger

	background sync.WaitGroup
}

// NewAudioService creates a new audio service
func NewAudioService(
	store repository.Store,
	files storage.FileStore,
	processor Processor,
	policy UploadPolicy,
	logger *zap.Logger,
) *AudioServiceImpl {
	return &AudioServiceImpl{
		store:     store,
		files:     files,
		processor: processor,
		policy:    policy,
		logger:    logging.OrNop(logger),
	}
}

// Upload stores the file under a fresh UUID name and creates its pending record
func (s *AudioServiceImpl) Upload(ctx context.Context, filename string, r io.Reader, size int64) (*dto.UploadResponse, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !lo.Contains(s.policy.AllowedExtensions, ext) {
		return nil, errors.NewBadRequestError(fmt.Sprintf(
			"Unsupported file format. Allowed: %s", strings.Join(s.policy.AllowedExtensions, ", ")))
	}
	if s.policy.MaxFileSizeBytes > 0 && size > s.policy.MaxFileSizeBytes {
		return nil, errors.NewTooLargeError(fmt.Sprintf(
			"File too large. Maximum size: %d MB", s.policy.MaxFileSizeBytes/(1024*1024)))
	}

	name := uuid.NewString() + "." + ext
	location, err := s.files.Save(ctx, name, r, size)
	if err != nil {
		s.logger.Error("Failed to save upload", zap.String("filename", filename), zap.Error(err))
		return nil, errors.NewInternalError("Failed to save file")
	}

	original := filepath.Base(filename)
	if original == "." || original == "/" {
		original = "unknown"
	}
	record := &model.AudioRecord{
		Filename:         name,
		OriginalFilename: original,
		FilePath:         location,
		FileSizeBytes:    size,
		Format:           ext,
		Status:           model.StatusPending,
	}
	if err := s.store.CreateAudio(ctx, record); err != nil {
		if delErr := s.files.Delete(context.WithoutCancel(ctx), location); delErr != nil {
			s.logger.Warn("Failed to remove orphaned upload", zap.String("location", location), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("Audio uploaded",
		zap.String("audio_id", record.ID),
		zap.String("original_filename", original),
		zap.Int64("bytes", size),
	)
	return &dto.UploadResponse{
		ID:               record.ID,
		Filename:         record.Filename,
		OriginalFilename: record.OriginalFilename,
		FileSizeBytes:    record.FileSizeBytes,
		Format:           record.Format,
		Status:           record.Status,
		Message:          "File uploaded successfully. Processing will begin shortly.",
	}, nil
}

// GetAudio returns one record or a not found error
func (s *AudioServiceImpl) GetAudio(ctx context.Context, id string) (*model.AudioRecord, error) {
	record, err := s.store.GetAudio(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.NewNotFoundError("Audio file")
	}
	return record, nil
}

// ListAudio returns one page of records, newest first
func (s *AudioServiceImpl) ListAudio(ctx context.Context, query dto.ListAudioQuery) (*dto.AudioListResponse, error) {
	records, total, err := s.store.ListAudio(ctx, repository.AudioFilter{
		Skip:   query.Skip,
		Limit:  query.Limit,
		Status: model.Status(query.Status),
	})
	if err != nil {
		return nil, err
	}
	return &dto.AudioListResponse{
		Files: records,
		Total: total,
		Skip:  query.Skip,
		Limit: query.Limit,
	}, nil
}

// DeleteAudio removes the record with its derived rows, then the stored file
func (s *AudioServiceImpl) DeleteAudio(ctx context.Context, id string) error {
	record, err := s.GetAudio(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.store.DeleteAudio(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NewNotFoundError("Audio file")
	}

	if err := s.files.Delete(ctx, record.FilePath); err != nil {
		s.logger.Warn("Failed to remove audio file", zap.String("audio_id", id), zap.Error(err))
	}
	s.logger.Info("Audio deleted", zap.String("audio_id", id))
	return nil
}

// Process checks the record can run, then runs the pipeline inline or in the background.
// Runs are detached from ctx so a closed client connection does not abort them.
func (s *AudioServiceImpl) Process(ctx context.Context, id string, sync bool) (*dto.ProcessResponse, error) {
	record, err := s.GetAudio(ctx, id)
	if err != nil {
		return nil, err
	}
	switch record.Status {
	case model.StatusProcessing:
		return nil, errors.FromPipelineError(apperrors.ErrAlreadyProcessing)
	case model.StatusCompleted:
		return nil, errors.FromPipelineError(apperrors.ErrAlreadyCompleted)
	}

	runCtx := context.WithoutCancel(ctx)
	if !sync {
		s.background.Add(1)
		go func() {
			defer s.background.Done()
			if res := s.processor.ProcessAudio(runCtx, id); !res.Success {
				s.logger.Warn("Background processing failed", zap.String("audio_id", id), zap.String("error", res.Error))
			}
		}()
		return &dto.ProcessResponse{
			Message: "Processing started",
			AudioID: id,
			Status:  model.StatusProcessing,
		}, nil
	}

	res := s.processor.ProcessAudio(runCtx, id)
	if !res.Success {
		err := res.Err
		if err == nil {
			err = stderrors.New(res.Error)
		}
		return nil, errors.FromPipelineError(err)
	}
	return &dto.ProcessResponse{
		Message:               "Processing complete",
		AudioID:               id,
		TranscriptPreview:     res.Preview(PreviewLength),
		Language:              res.Language,
		Sentiment:             res.Sentiment,
		EntitiesFound:         res.EntitiesCount,
		ProcessingTimeSeconds: res.TotalProcessingTime,
	}, nil
}

// Wait implements AudioService
func (s *AudioServiceImpl) Wait() {
	s.background.Wait()
}
