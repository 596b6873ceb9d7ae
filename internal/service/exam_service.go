package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/studyhub/enemprep/internal/apperr"
	"github.com/studyhub/enemprep/internal/dto"
	"github.com/studyhub/enemprep/internal/model"
	"github.com/studyhub/enemprep/internal/repository"
	"gorm.io/gorm"
)

type ExamService interface {
	Create(req dto.ExamCreateDTO) (*dto.ExamDetailDTO, error)
	List() ([]dto.ExamSummaryDTO, error)
	Get(id uint) (*dto.ExamDetailDTO, error)
	Update(id uint, req dto.ExamUpdateDTO) (*dto.ExamDetailDTO, error)
	Delete(id uint) error
}

type examService struct {
	examRepo repository.ExamRepository
}

func NewExamService(examRepo repository.ExamRepository) ExamService {
	return &examService{examRepo: examRepo}
}

func (s *examService) Create(req dto.ExamCreateDTO) (*dto.ExamDetailDTO, error) {
	examQuestions := make([]model.ExamQuestion, 0, len(req.Questions))
	for i, qDto := range req.Questions {
		keys := make(map[string]bool, len(qDto.Options))
		for _, opt := range qDto.Options {
			if keys[opt.Key] {
				return nil, apperr.Invalid("question %d has duplicate option key %q", i+1, opt.Key)
			}
			keys[opt.Key] = true
		}
		if !keys[qDto.Answer] {
			return nil, apperr.Invalid("question %d declares answer %q which is not one of its options", i+1, qDto.Answer)
		}

		var question model.Question
		copier.Copy(&question, &qDto)

		points := qDto.Points
		if points <= 0 {
			points = 1
		}
		examQuestions = append(examQuestions, model.ExamQuestion{
			Question: question,
			Position: i + 1,
			Points:   points,
		})
	}

	exam := model.Exam{
		Title:           req.Title,
		Description:     req.Description,
		Subjects:        req.Subjects,
		DurationMinutes: req.DurationMinutes,
		Difficulty:      req.Difficulty,
		PassingScore:    req.PassingScore,
		IsPublic:        true,
		Instructions:    req.Instructions,
		ExamQuestions:   examQuestions,
	}
	if req.IsPublic != nil {
		exam.IsPublic = *req.IsPublic
	}

	if err := s.examRepo.Create(&exam); err != nil {
		log.Error().Err(err).Msg("Failed to create exam")
		return nil, fmt.Errorf("creating exam: %w", err)
	}

	log.Info().Uint("examID", exam.ID).Int("questions", len(examQuestions)).Msg("Exam created")
	return s.Get(exam.ID)
}

func (s *examService) List() ([]dto.ExamSummaryDTO, error) {
	examsWithCount, err := s.examRepo.FindAllWithQuestionCount()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list exams")
		return nil, fmt.Errorf("listing exams: %w", err)
	}

	summaries := make([]dto.ExamSummaryDTO, 0, len(examsWithCount))
	for _, ewc := range examsWithCount {
		summaries = append(summaries, dto.ExamSummaryDTO{
			ID:              ewc.Exam.ID,
			Title:           ewc.Exam.Title,
			Description:     ewc.Exam.Description,
			Subjects:        ewc.Exam.Subjects,
			DurationMinutes: ewc.Exam.DurationMinutes,
			Difficulty:      ewc.Exam.Difficulty,
			PassingScore:    ewc.Exam.PassingScore,
			IsPublic:        ewc.Exam.IsPublic,
			QuestionCount:   ewc.QuestionCount,
			CreatedAt:       ewc.Exam.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *examService) Get(id uint) (*dto.ExamDetailDTO, error) {
	exam, err := s.examRepo.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("exam %d not found", id)
		}
		return nil, fmt.Errorf("fetching exam %d: %w", id, err)
	}

	var detail dto.ExamDetailDTO
	if err := copier.Copy(&detail, exam); err != nil {
		return nil, fmt.Errorf("preparing exam response: %w", err)
	}

	// Build questions by hand: the correct answer must not leak into the
	// attempt-taking view.
	detail.Questions = make([]dto.ExamQuestionDTO, 0, len(exam.ExamQuestions))
	for _, eq := range exam.ExamQuestions {
		options := make([]dto.OptionDTO, 0, len(eq.Question.Options))
		for _, opt := range eq.Question.Options {
			options = append(options, dto.OptionDTO{Key: opt.Key, Text: opt.Text})
		}
		detail.Questions = append(detail.Questions, dto.ExamQuestionDTO{
			QuestionID: eq.QuestionID,
			Position:   eq.Position,
			Points:     eq.Points,
			Subject:    eq.Question.Subject,
			Statement:  eq.Question.Statement,
			Options:    options,
		})
	}
	return &detail, nil
}

func (s *examService) Update(id uint, req dto.ExamUpdateDTO) (*dto.ExamDetailDTO, error) {
	exam, err := s.examRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("exam %d not found", id)
		}
		return nil, fmt.Errorf("fetching exam %d: %w", id, err)
	}

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = *req.Description
	}
	if req.Subjects != nil {
		exam.Subjects = req.Subjects
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = *req.DurationMinutes
	}
	if req.Difficulty != nil {
		exam.Difficulty = *req.Difficulty
	}
	if req.PassingScore != nil {
		exam.PassingScore = *req.PassingScore
	}
	if req.IsPublic != nil {
		exam.IsPublic = *req.IsPublic
	}
	if req.Instructions != nil {
		exam.Instructions = *req.Instructions
	}

	if err := s.examRepo.Update(exam); err != nil {
		return nil, fmt.Errorf("updating exam %d: %w", id, err)
	}
	return s.Get(id)
}

func (s *examService) Delete(id uint) error {
	if _, err := s.examRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("exam %d not found", id)
		}
		return fmt.Errorf("fetching exam %d: %w", id, err)
	}
	if err := s.examRepo.Delete(id); err != nil {
		return fmt.Errorf("deleting exam %d: %w", id, err)
	}
	log.Info().Uint("examID", id).Msg("Exam deleted")
	return nil
}
