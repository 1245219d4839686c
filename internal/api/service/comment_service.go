package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentService interface {
	GetByReview(ctx context.Context, reviewID int64, page, pageSize int) ([]dto.CommentResponse, int64, error)
	GetByID(ctx context.Context, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, reviewID int64, authorID string, in dto.CreateCommentDTO) (*dto.CommentResponse, error)
	Update(ctx context.Context, reviewID, commentID int64, actor Actor, in dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, reviewID, commentID int64, actor Actor) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *commentService) GetByReview(ctx context.Context, reviewID int64, page, pageSize int) ([]dto.CommentResponse, int64, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrReviewNotFound
		}
		return nil, 0, err
	}

	comments, total, err := s.commentRepo.GetByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return resp, total, nil
}

func (s *commentService) GetByID(ctx context.Context, reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.getForReview(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Create(ctx context.Context, reviewID int64, authorID string, in dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     in.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload with author data
	comment, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Update(ctx context.Context, reviewID, commentID int64, actor Actor, in dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	comment, err := s.getForReview(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !actor.canModify(comment.AuthorID) {
		return nil, ErrPermissionDenied
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	comment, err = s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, reviewID, commentID int64, actor Actor) error {
	comment, err := s.getForReview(ctx, reviewID, commentID)
	if err != nil {
		return err
	}
	if !actor.canModify(comment.AuthorID) {
		return ErrPermissionDenied
	}
	return s.commentRepo.Delete(ctx, commentID)
}

// getForReview fetches a comment and verifies it belongs to the review
// named in the path.
func (s *commentService) getForReview(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}
