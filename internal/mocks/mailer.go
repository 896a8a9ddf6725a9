package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"weathermail.app/internal/ports"
)

// Mailer is a mock implementation of ports.Mailer
type Mailer struct {
	mock.Mock
}

// NewMailer creates a mock that asserts its expectations on test cleanup
func NewMailer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Mailer {
	m := &Mailer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Mailer) SendEmail(ctx context.Context, params ports.EmailParams) {
	m.Called(ctx, params)
}
