package user

import (
	"context"
	"fmt"
)

// Profile holds the user-editable fields
type Profile struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Photo string `json:"photo"`
}

// Updater persists a modified user record
type Updater interface {
	Update(ctx context.Context, u *User, columns ...string) error
}

// Service handles profile changes for signed-in users
type Service struct {
	store Updater
}

func NewService(store Updater) *Service {
	return &Service{store: store}
}

// UpdateProfile validates p and saves it on u. Empty fields keep their current value.
func (s *Service) UpdateProfile(ctx context.Context, u *User, p Profile) (*User, error) {
	if p.Name == "" {
		p.Name = u.Name
	}
	if p.Bio == "" {
		p.Bio = u.Bio
	}
	if p.Photo == "" {
		p.Photo = u.Photo
	}

	if err := ValidateProfile(p); err != nil {
		return nil, err
	}

	updated := *u
	updated.Name = p.Name
	updated.Bio = p.Bio
	updated.Photo = p.Photo

	if err := s.store.Update(ctx, &updated, ProfileColumns...); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &updated, nil
}
