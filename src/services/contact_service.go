package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meridian-studio/contact-backend/src/models"
	"github.com/meridian-studio/contact-backend/src/repositories"
	"github.com/rs/zerolog/log"
)

// ContactService handles contact submission intake and admin review
type ContactService struct {
	repo        repositories.ContactRepository
	guard       *GuardService
	mailer      *EmailService
	notifyEmail string
}

// NewContactService creates a new contact service. mailer may be nil, in
// which case notification and reply emails are skipped.
func NewContactService(repo repositories.ContactRepository, guard *GuardService, mailer *EmailService, notifyEmail string) *ContactService {
	return &ContactService{
		repo:        repo,
		guard:       guard,
		mailer:      mailer,
		notifyEmail: notifyEmail,
	}
}

// SubmitInput carries a validated contact form payload plus request metadata
type SubmitInput struct {
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	Company   string
	Source    string
	IPAddress string
	UserAgent string
}

func validateSubmission(in *SubmitInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if !emailRe.MatchString(in.Email) {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	in.Message = strings.TrimSpace(in.Message)
	if in.Message == "" {
		return &ValidationError{Field: "message", Message: "is required"}
	}
	if in.Source == "" {
		in.Source = "website"
	}
	return nil
}

// Submit runs the guard checks, persists the submission and dispatches the
// notification email without blocking the caller.
//
// The duplicate/quota checks and the insert are not one atomic step: the
// at-most-one-in-window property is best effort under concurrency.
func (cs *ContactService) Submit(ctx context.Context, in SubmitInput) (*models.ContactSubmission, error) {
	if err := validateSubmission(&in); err != nil {
		return nil, err
	}

	now := time.Now()

	dup, err := cs.guard.IsDuplicate(ctx, in.Email, in.Message, now)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicateSubmission
	}

	limited, err := cs.guard.IsRateLimited(ctx, in.IPAddress, now)
	if err != nil {
		return nil, err
	}
	if limited {
		return nil, ErrRateLimited
	}

	sub := &models.ContactSubmission{
		ID:        uuid.New(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		Company:   in.Company,
		Source:    in.Source,
		Status:    models.StatusNew,
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
		CreatedAt: now,
	}
	sub.UpdatedAt = now

	if err := cs.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	cs.notifyAsync(sub)

	return sub, nil
}

// notifyAsync sends the new-submission notification on a detached goroutine.
// Failures are logged and never reach the submitter.
func (cs *ContactService) notifyAsync(sub *models.ContactSubmission) {
	if cs.mailer == nil || cs.notifyEmail == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := cs.mailer.SendSubmissionNotification(ctx, cs.notifyEmail, sub); err != nil {
			log.Error().Err(err).
				Str("submission_id", sub.ID.String()).
				Msg("failed to send submission notification")
		}
	}()
}

// List returns a page of submissions, optionally filtered by status
func (cs *ContactService) List(ctx context.Context, status string, page, limit int) ([]*models.ContactSubmission, int, error) {
	filter := repositories.ContactFilter{Limit: limit}
	if page > 1 {
		filter.Offset = (page - 1) * limit
	}
	if status != "" {
		s := models.SubmissionStatus(status)
		if !models.ValidSubmissionStatus(s) {
			return nil, 0, &ValidationError{Field: "status", Message: "unknown status"}
		}
		filter.Status = &s
	}

	return cs.repo.List(ctx, filter)
}

// Get returns a single submission
func (cs *ContactService) Get(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	sub, err := cs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

// UpdateStatus changes the review status of a submission
func (cs *ContactService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) error {
	if !models.ValidSubmissionStatus(status) {
		return &ValidationError{Field: "status", Message: "unknown status"}
	}
	if err := cs.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes a submission
func (cs *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := cs.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Reply stores the reply text, marks the submission replied and sends the
// reply email to the original sender without blocking the caller
func (cs *ContactService) Reply(ctx context.Context, id uuid.UUID, replyText string) (*models.ContactSubmission, error) {
	replyText = strings.TrimSpace(replyText)
	if replyText == "" {
		return nil, &ValidationError{Field: "message", Message: "is required"}
	}

	sub, err := cs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := cs.repo.SetReply(ctx, id, replyText, now); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sub.Reply = &replyText
	sub.RepliedAt = &now
	sub.Status = models.StatusReplied

	if cs.mailer != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := cs.mailer.SendReply(ctx, sub, replyText); err != nil {
				log.Error().Err(err).
					Str("submission_id", sub.ID.String()).
					Str("to", sub.Email).
					Msg("failed to send reply email")
			}
		}()
	}

	return sub, nil
}

// Stats holds aggregate submission counts
type Stats struct {
	Total    int                             `json:"total"`
	ByStatus map[models.SubmissionStatus]int `json:"byStatus"`
}

// Stats returns aggregate counts by status
func (cs *ContactService) Stats(ctx context.Context) (*Stats, error) {
	counts, err := cs.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	return &Stats{Total: total, ByStatus: counts}, nil
}

// exportPageSize bounds memory while streaming the CSV export
const exportPageSize = 500

// ExportCSV streams all submissions as CSV
func (cs *ContactService) ExportCSV(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "name", "email", "phone", "subject", "message", "company", "source", "status", "ip_address", "created_at", "replied_at"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	offset := 0
	for {
		subs, _, err := cs.repo.List(ctx, repositories.ContactFilter{Limit: exportPageSize, Offset: offset})
		if err != nil {
			return fmt.Errorf("failed to fetch submissions: %w", err)
		}
		if len(subs) == 0 {
			break
		}

		for _, sub := range subs {
			repliedAt := ""
			if sub.RepliedAt != nil {
				repliedAt = sub.RepliedAt.Format(time.RFC3339)
			}
			record := []string{
				sub.ID.String(), sub.Name, sub.Email, sub.Phone, sub.Subject,
				sub.Message, sub.Company, sub.Source, string(sub.Status),
				sub.IPAddress, sub.CreatedAt.Format(time.RFC3339), repliedAt,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write csv record: %w", err)
			}
		}

		if len(subs) < exportPageSize {
			break
		}
		offset += exportPageSize
	}

	cw.Flush()
	return cw.Error()
}
