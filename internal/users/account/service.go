// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import "context"

// Service implements the member directory use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] with its Repository dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// ListUsers returns the full public directory for the recipient picker.
func (service *Service) ListUsers(context context.Context) ([]Summary, error) {
	return service.repository.ListUsers(context)
}
