package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"foodrescue/internal/market"
	"foodrescue/internal/utils"
	"foodrescue/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const maxPhotoBytes = 10 << 20

func (s *Service) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	user, err := s.userFromContext(r.Context())
	if err != nil {
		s.redirectToLogin(w, r)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		s.redirectWithError(w, r, "/donor", "invalid form payload")
		return
	}

	var form types.ListingForm
	if err := decoder.Decode(&form, r.MultipartForm.Value); err != nil {
		s.redirectWithError(w, r, "/donor", "invalid form payload")
		return
	}

	// The photo upload is the one step that must finish before the create is
	// finalized; a listing never persists with a dangling image key.
	imageKey, err := s.uploadListingPhoto(r)
	if err != nil {
		s.logger.WithError(err).Error("failed to upload listing photo")
		s.redirectWithError(w, r, "/donor", "Could not upload the photo. Please try again.")
		return
	}

	draft := market.ListingDraft{
		DonorType:       form.DonorType,
		FoodDescription: form.FoodDescription,
		Quantity:        form.Quantity,
		ExpiryDate:      form.ExpiryDate,
		PickupWindow:    form.PickupWindow,
		Location:        form.Location,
		Notes:           form.Notes,
		ImageKey:        imageKey,
	}

	if _, err := s.market.CreateListing(r.Context(), user, draft); err != nil {
		switch {
		case errors.Is(err, types.ErrValidation):
			s.redirectWithError(w, r, "/donor", "Please fill in all required fields.")
		case errors.Is(err, types.ErrNotAuthorized):
			s.redirectWithError(w, r, dashboardPath(user), "Login as a donor to create listings.")
		default:
			s.logger.WithError(err).Error("failed to create listing")
			s.internalServerError(w)
		}
		return
	}

	s.redirectWithNotice(w, r, "/donor", "Listing created successfully.")
}

func (s *Service) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	user, err := s.userFromContext(r.Context())
	if err != nil {
		s.redirectToLogin(w, r)
		return
	}

	listingID := flow.Param(r.Context(), "id")

	if err := s.market.DeleteListing(r.Context(), user, listingID); err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			s.redirectWithError(w, r, "/donor", "That listing no longer exists.")
		case errors.Is(err, types.ErrNotAuthorized):
			s.redirectWithError(w, r, dashboardPath(user), "Only your own listings can be deleted.")
		case errors.Is(err, types.ErrPrecondition):
			s.redirectWithError(w, r, "/donor", "Listings can only be deleted while available and within 10 minutes of creation.")
		default:
			s.logger.WithError(err).WithField("listing_id", listingID).Error("failed to delete listing")
			s.internalServerError(w)
		}
		return
	}

	s.redirectWithNotice(w, r, "/donor", "Listing deleted.")
}

func (s *Service) handleClaimListing(w http.ResponseWriter, r *http.Request) {
	user, err := s.userFromContext(r.Context())
	if err != nil {
		s.redirectToLogin(w, r)
		return
	}

	listingID := flow.Param(r.Context(), "id")

	if _, err := s.market.ClaimListing(r.Context(), user, listingID); err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			s.redirectWithError(w, r, "/charity", "That listing no longer exists.")
		case errors.Is(err, types.ErrNotAuthorized):
			s.redirectWithError(w, r, dashboardPath(user), "Login as a charity to claim listings.")
		case errors.Is(err, types.ErrPrecondition):
			s.redirectWithError(w, r, "/charity", "Another charity claimed that listing first.")
		default:
			s.logger.WithError(err).WithField("listing_id", listingID).Error("failed to claim listing")
			s.internalServerError(w)
		}
		return
	}

	s.redirectWithNotice(w, r, "/charity", "Listing claimed successfully.")
}

func (s *Service) handleAcknowledgeClaim(w http.ResponseWriter, r *http.Request) {
	user, err := s.userFromContext(r.Context())
	if err != nil {
		s.redirectToLogin(w, r)
		return
	}

	listingID := flow.Param(r.Context(), "id")
	back := dashboardPath(user)

	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, back, "invalid form payload")
		return
	}

	var form types.AckForm
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		s.redirectWithError(w, r, back, "invalid form payload")
		return
	}

	updated, err := s.market.AcknowledgeClaim(r.Context(), user, listingID, types.Role(form.Side))
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			s.redirectWithError(w, r, back, "That listing no longer exists.")
		case errors.Is(err, types.ErrValidation):
			s.redirectWithError(w, r, back, "invalid acknowledgment")
		case errors.Is(err, types.ErrPrecondition):
			s.redirectWithError(w, r, back, "That listing has not been claimed yet.")
		default:
			s.logger.WithError(err).WithField("listing_id", listingID).Error("failed to acknowledge claim")
			s.internalServerError(w)
		}
		return
	}

	notice := "Claim confirmed."
	if updated.FullyConfirmed() {
		notice = "Both sides confirmed. Exchange marked as fully claimed."
	}
	s.redirectWithNotice(w, r, back, notice)
}

func (s *Service) handlePostChatMessage(w http.ResponseWriter, r *http.Request) {
	user, err := s.userFromContext(r.Context())
	if err != nil {
		s.redirectToLogin(w, r)
		return
	}

	listingID := flow.Param(r.Context(), "id")
	back := dashboardPath(user)

	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, back, "invalid form payload")
		return
	}

	var form types.ChatForm
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		s.redirectWithError(w, r, back, "invalid form payload")
		return
	}

	if _, err := s.market.PostChatMessage(r.Context(), user, listingID, form.Text); err != nil {
		switch {
		case errors.Is(err, types.ErrValidation):
			s.redirectWithError(w, r, back, "Type a message before sending.")
		case errors.Is(err, types.ErrNotFound):
			s.redirectWithError(w, r, back, "That listing no longer exists.")
		default:
			s.logger.WithError(err).WithField("listing_id", listingID).Error("failed to post chat message")
			s.internalServerError(w)
		}
		return
	}

	http.Redirect(w, r, back, http.StatusSeeOther)
}

// uploadListingPhoto stores an attached photo in S3 and returns its key.
// Missing photo or unconfigured bucket yields an empty key and no error.
func (s *Service) uploadListingPhoto(r *http.Request) (string, error) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("read photo field: %w", err)
	}
	defer file.Close()

	if s.s3Client == nil || s.config.S3BucketName == "" {
		s.logger.Warn("photo attached but no storage bucket configured, skipping upload")
		return "", nil
	}

	key := "listings/" + utils.NanoID() + strings.ToLower(filepath.Ext(header.Filename))

	if err := s.putPhoto(r, file, header, key); err != nil {
		return "", err
	}

	return key, nil
}

func (s *Service) putPhoto(r *http.Request, file multipart.File, header *multipart.FileHeader, key string) error {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.s3Client.PutObject(r.Context(), &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3BucketName),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload photo to s3: %w", err)
	}

	return nil
}
