package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// TextGenerator is a mock implementation of ports.TextGenerator
type TextGenerator struct {
	mock.Mock
}

// NewTextGenerator creates a mock that asserts its expectations on test cleanup
func NewTextGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *TextGenerator {
	m := &TextGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
